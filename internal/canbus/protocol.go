package canbus

import (
	"fmt"
	"math"

	"go.einride.tech/can"

	"github.com/eytandecker/tiltrotor-mcp/internal/mixer"
	"github.com/eytandecker/tiltrotor-mcp/internal/tilt"
	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// Frame IDs. All frames use standard 11-bit IDs and little-endian fields.
const (
	IDFlightContext uint32 = 0x200 // in: mode, flags, transition, throttle, tilt switch
	IDMixerDemand   uint32 = 0x201 // in: hover throttle, roll, pitch, yaw
	IDTiltServos    uint32 = 0x300 // out: tilt, left, right servo, written mask, flags
	IDForwardThrust uint32 = 0x301 // out: forward throttle, motor mask
	IDModeRequest   uint32 = 0x302 // out: requested control mode
	IDMotorThrust   uint32 = 0x310 // out: four motors per frame, 0x310 + motor/4
)

const (
	// unitScale is the wire resolution of fractions (throttle, demand).
	unitScale = 10000.0
	// servoScale is the wire resolution of scaled servo outputs.
	servoScale = 10.0

	motorsPerThrustFrame = 4
	maxThrustFrames      = types.MaxMotors / motorsPerThrustFrame
)

// Flag bits in the flight context frame (byte 1).
const (
	flagInVTOL   = 8
	flagArmed    = 9
	flagAssisted = 10
)

// DecodeFlightContext decodes an IDFlightContext frame into fc, leaving the
// fields the frame does not carry untouched.
//
//	byte 0     control mode
//	byte 1     bit 0 in_vtol, bit 1 armed, bit 2 assisted
//	byte 2     transition phase
//	bytes 3-4  commanded throttle, 1e-4
//	bytes 5-6  tilt switch PWM, us
func DecodeFlightContext(f can.Frame, fc *types.FlightContext) error {
	if err := checkFrame(f, IDFlightContext, 7); err != nil {
		return err
	}
	phase := types.TransitionPhase(f.Data.UnsignedBitsLittleEndian(16, 8))
	if phase > types.TransitionDone {
		return fmt.Errorf("%w: transition phase %d", ErrInvalidFields, phase)
	}
	fc.Mode = types.ControlMode(f.Data.UnsignedBitsLittleEndian(0, 8))
	fc.InVTOLMode = f.Data.Bit(flagInVTOL)
	fc.Armed = f.Data.Bit(flagArmed)
	fc.AssistedFlight = f.Data.Bit(flagAssisted)
	fc.Transition = phase
	fc.Throttle = float64(f.Data.UnsignedBitsLittleEndian(24, 16)) / unitScale
	fc.TiltSwitchPWM = uint16(f.Data.UnsignedBitsLittleEndian(40, 16))
	return nil
}

// EncodeFlightContext is the inverse of DecodeFlightContext.
func EncodeFlightContext(fc types.FlightContext) can.Frame {
	f := can.Frame{ID: IDFlightContext, Length: 7}
	f.Data.SetUnsignedBitsLittleEndian(0, 8, uint64(fc.Mode))
	f.Data.SetBit(flagInVTOL, fc.InVTOLMode)
	f.Data.SetBit(flagArmed, fc.Armed)
	f.Data.SetBit(flagAssisted, fc.AssistedFlight)
	f.Data.SetUnsignedBitsLittleEndian(16, 8, uint64(fc.Transition))
	f.Data.SetUnsignedBitsLittleEndian(24, 16, toUnsigned(fc.Throttle, unitScale))
	f.Data.SetUnsignedBitsLittleEndian(40, 16, uint64(fc.TiltSwitchPWM))
	return f
}

// DecodeMixerDemand decodes an IDMixerDemand frame.
//
//	bytes 0-1  throttle, 1e-4
//	bytes 2-3  roll, signed 1e-4
//	bytes 4-5  pitch, signed 1e-4
//	bytes 6-7  yaw, signed 1e-4
func DecodeMixerDemand(f can.Frame) (mixer.Demand, error) {
	if err := checkFrame(f, IDMixerDemand, 8); err != nil {
		return mixer.Demand{}, err
	}
	return mixer.Demand{
		Throttle: float64(f.Data.UnsignedBitsLittleEndian(0, 16)) / unitScale,
		Roll:     float64(f.Data.SignedBitsLittleEndian(16, 16)) / unitScale,
		Pitch:    float64(f.Data.SignedBitsLittleEndian(32, 16)) / unitScale,
		Yaw:      float64(f.Data.SignedBitsLittleEndian(48, 16)) / unitScale,
	}, nil
}

// EncodeMixerDemand is the inverse of DecodeMixerDemand.
func EncodeMixerDemand(d mixer.Demand) can.Frame {
	f := can.Frame{ID: IDMixerDemand, Length: 8}
	f.Data.SetUnsignedBitsLittleEndian(0, 16, toUnsigned(d.Throttle, unitScale))
	f.Data.SetSignedBitsLittleEndian(16, 16, toSigned(d.Roll, unitScale))
	f.Data.SetSignedBitsLittleEndian(32, 16, toSigned(d.Pitch, unitScale))
	f.Data.SetSignedBitsLittleEndian(48, 16, toSigned(d.Yaw, unitScale))
	return f
}

// EncodeTiltServos packs the servo writes of one tick.
//
//	bytes 0-5  tilt, left, right servo, signed 0.1 units of the 0..1000 range
//	byte 6     bit n set when channel n was written
//	byte 7     bit 0 motors_active
func EncodeTiltServos(out tilt.Output) can.Frame {
	f := can.Frame{ID: IDTiltServos, Length: 8}
	channels := []tilt.ServoChannel{tilt.ChannelTilt, tilt.ChannelTiltLeft, tilt.ChannelTiltRight}
	for i, ch := range channels {
		v, ok := out.Servos.Get(ch)
		if !ok {
			continue
		}
		f.Data.SetSignedBitsLittleEndian(uint8(16*i), 16, toSigned(v, servoScale))
		f.Data.SetBit(uint8(48+i), true)
	}
	f.Data.SetBit(56, out.MotorsActive)
	return f
}

// EncodeForwardThrust packs the forward thrust request.
//
//	bytes 0-1  throttle, 1e-4
//	bytes 2-5  motor mask
func EncodeForwardThrust(fwd tilt.ForwardThrust) can.Frame {
	f := can.Frame{ID: IDForwardThrust, Length: 6}
	f.Data.SetUnsignedBitsLittleEndian(0, 16, toUnsigned(fwd.Throttle, unitScale))
	f.Data.SetUnsignedBitsLittleEndian(16, 32, uint64(fwd.Mask))
	return f
}

// EncodeModeRequest packs a mode change request.
func EncodeModeRequest(mode types.ControlMode) can.Frame {
	f := can.Frame{ID: IDModeRequest, Length: 1}
	f.Data.SetUnsignedBitsLittleEndian(0, 8, uint64(mode))
	return f
}

// EncodeMotorThrust packs per-motor thrust, four motors per frame, 1e-4 each.
func EncodeMotorThrust(thrust []float64) []can.Frame {
	n := min((len(thrust)+motorsPerThrustFrame-1)/motorsPerThrustFrame, maxThrustFrames)
	frames := make([]can.Frame, n)
	for i := range frames {
		frames[i] = can.Frame{ID: IDMotorThrust + uint32(i), Length: 8}
	}
	for i, v := range thrust {
		fi := i / motorsPerThrustFrame
		if fi >= n {
			break
		}
		frames[fi].Data.SetUnsignedBitsLittleEndian(uint8(16*(i%motorsPerThrustFrame)), 16, toUnsigned(v, unitScale))
	}
	return frames
}

func checkFrame(f can.Frame, id uint32, length uint8) error {
	if f.ID != id {
		return fmt.Errorf("%w: 0x%X", ErrUnknownFrame, f.ID)
	}
	if f.IsRemote {
		return ErrRemoteFrame
	}
	if f.Length < length {
		return fmt.Errorf("%w: 0x%X has %d bytes, need %d", ErrShortFrame, f.ID, f.Length, length)
	}
	return nil
}

func toUnsigned(v, scale float64) uint64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return uint64(math.Round(min(v*scale, math.MaxUint16)))
}

func toSigned(v, scale float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	return int64(math.Round(min(max(v*scale, math.MinInt16), math.MaxInt16)))
}
