package canbus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.einride.tech/can"

	"github.com/eytandecker/tiltrotor-mcp/internal/mixer"
	"github.com/eytandecker/tiltrotor-mcp/internal/tilt"
	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

func TestDecodeFlightContextLayout(t *testing.T) {
	f := can.Frame{
		ID:     IDFlightContext,
		Length: 7,
		// FBWA, armed+assisted, TIMER, throttle 0.25, switch 1800us
		Data: can.Data{byte(types.ModeFlyByWireA), 0b110, 1, 0xC4, 0x09, 0x08, 0x07},
	}
	fc := types.FlightContext{MixerThrottle: 0.3}

	require.NoError(t, DecodeFlightContext(f, &fc))

	assert.Equal(t, types.ModeFlyByWireA, fc.Mode)
	assert.False(t, fc.InVTOLMode)
	assert.True(t, fc.Armed)
	assert.True(t, fc.AssistedFlight)
	assert.Equal(t, types.TransitionTimer, fc.Transition)
	assert.InDelta(t, 0.25, fc.Throttle, 1e-9)
	assert.Equal(t, uint16(1800), fc.TiltSwitchPWM)
	assert.Equal(t, 0.3, fc.MixerThrottle, "fields not on the wire are kept")
}

func TestFlightContextSurvivesEncoding(t *testing.T) {
	in := types.FlightContext{
		Mode: types.ModeQLoiter, InVTOLMode: true, Armed: true,
		Transition: types.TransitionAngleWait, Throttle: 0.4321, TiltSwitchPWM: 1230,
	}
	var out types.FlightContext
	require.NoError(t, DecodeFlightContext(EncodeFlightContext(in), &out))
	assert.Equal(t, in, out)
}

func TestDecodeRejectsBadFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame can.Frame
		want  error
	}{
		{name: "wrong id", frame: can.Frame{ID: 0x123, Length: 8}, want: ErrUnknownFrame},
		{name: "short", frame: can.Frame{ID: IDFlightContext, Length: 3}, want: ErrShortFrame},
		{name: "remote", frame: can.Frame{ID: IDFlightContext, Length: 7, IsRemote: true}, want: ErrRemoteFrame},
		{name: "bad phase", frame: can.Frame{ID: IDFlightContext, Length: 7, Data: can.Data{0, 0, 9}}, want: ErrInvalidFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fc types.FlightContext
			assert.ErrorIs(t, DecodeFlightContext(tt.frame, &fc), tt.want)
			assert.Equal(t, types.FlightContext{}, fc)
		})
	}

	_, err := DecodeMixerDemand(can.Frame{ID: IDMixerDemand, Length: 7})
	assert.ErrorIs(t, err, ErrShortFrame)
}

func TestMixerDemandSigned(t *testing.T) {
	d, err := DecodeMixerDemand(EncodeMixerDemand(mixer.Demand{Throttle: 0.5, Roll: -0.25, Pitch: 0.125, Yaw: -1}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.Throttle, 1e-9)
	assert.InDelta(t, -0.25, d.Roll, 1e-9)
	assert.InDelta(t, 0.125, d.Pitch, 1e-9)
	assert.InDelta(t, -1, d.Yaw, 1e-9)
}

func TestEncodeTiltServos(t *testing.T) {
	var out tilt.Output
	out.Servos.Set(tilt.ChannelTilt, 0)
	out.Servos.Set(tilt.ChannelTiltLeft, 150)
	out.Servos.Set(tilt.ChannelTiltRight, 50)
	out.MotorsActive = true

	f := EncodeTiltServos(out)

	assert.Equal(t, IDTiltServos, f.ID)
	assert.Equal(t, uint8(8), f.Length)
	assert.Equal(t, int64(0), f.Data.SignedBitsLittleEndian(0, 16))
	assert.Equal(t, int64(1500), f.Data.SignedBitsLittleEndian(16, 16))
	assert.Equal(t, int64(500), f.Data.SignedBitsLittleEndian(32, 16))
	assert.Equal(t, byte(0b111), f.Data[6])
	assert.Equal(t, byte(1), f.Data[7])
}

func TestEncodeTiltServosOnlyWrittenChannels(t *testing.T) {
	var out tilt.Output
	out.Servos.Set(tilt.ChannelTilt, 1000)

	f := EncodeTiltServos(out)
	assert.Equal(t, int64(10000), f.Data.SignedBitsLittleEndian(0, 16))
	assert.Equal(t, byte(0b001), f.Data[6])
	assert.Equal(t, byte(0), f.Data[7])
}

func TestEncodeForwardThrustAndModeRequest(t *testing.T) {
	f := EncodeForwardThrust(tilt.ForwardThrust{Throttle: 0.75, Mask: types.MaskOf(0, 1, 17)})
	assert.Equal(t, uint64(7500), f.Data.UnsignedBitsLittleEndian(0, 16))
	assert.Equal(t, uint64(types.MaskOf(0, 1, 17)), f.Data.UnsignedBitsLittleEndian(16, 32))

	m := EncodeModeRequest(types.ModeQStabilize)
	assert.Equal(t, IDModeRequest, m.ID)
	assert.Equal(t, byte(types.ModeQStabilize), m.Data[0])
}

func TestEncodeMotorThrust(t *testing.T) {
	frames := EncodeMotorThrust([]float64{0.1, 0.2, 0.3, 0.4, 1.5, math.NaN()})

	require.Len(t, frames, 2)
	assert.Equal(t, IDMotorThrust, frames[0].ID)
	assert.Equal(t, IDMotorThrust+1, frames[1].ID)
	assert.Equal(t, uint64(1000), frames[0].Data.UnsignedBitsLittleEndian(0, 16))
	assert.Equal(t, uint64(4000), frames[0].Data.UnsignedBitsLittleEndian(48, 16))
	assert.Equal(t, uint64(15000), frames[1].Data.UnsignedBitsLittleEndian(0, 16))
	assert.Equal(t, uint64(0), frames[1].Data.UnsignedBitsLittleEndian(16, 16))

	assert.Empty(t, EncodeMotorThrust(nil))
}

func TestWireScaling(t *testing.T) {
	assert.Equal(t, uint64(0), toUnsigned(-0.5, unitScale))
	assert.Equal(t, uint64(math.MaxUint16), toUnsigned(100, unitScale))
	assert.Equal(t, int64(math.MinInt16), toSigned(-100, unitScale))
	assert.Equal(t, int64(0), toSigned(math.NaN(), unitScale))
}
