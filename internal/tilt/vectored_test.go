package tilt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectoredController(t *testing.T, currentTilt float64) *Controller {
	t.Helper()
	cfg := testConfig(TypeVectoredYaw)
	cfg.YawAngleDeg = 10
	c := New(cfg)
	c.state.CurrentTilt = currentTilt
	return c
}

func servo(t *testing.T, out Output, ch ServoChannel) float64 {
	t.Helper()
	v, ok := out.Servos.Get(ch)
	require.True(t, ok, "channel %s not written", ch)
	return v
}

func TestVectoredYawDifferential(t *testing.T) {
	c := vectoredController(t, 0)
	fc := hoverContext()
	fc.YawDemand = 0.5

	var out Output
	c.vectoredYaw(fc, &out)

	assert.InDelta(t, 150, servo(t, out, ChannelTiltLeft), 1e-9)
	assert.InDelta(t, 50, servo(t, out, ChannelTiltRight), 1e-9)
}

func TestVectoredYawGangedAboveThreshold(t *testing.T) {
	c := vectoredController(t, 0.75)
	fc := hoverContext()
	fc.YawDemand = 1

	var out Output
	c.vectoredYaw(fc, &out)

	base := 0.1 + 0.75*0.9
	assert.InDelta(t, 1000*base, servo(t, out, ChannelTiltLeft), 1e-9)
	assert.InDelta(t, 1000*base, servo(t, out, ChannelTiltRight), 1e-9)
}

func TestVectoredYawClampsDemand(t *testing.T) {
	tests := []struct {
		name      string
		yaw       float64
		wantLeft  float64
		wantRight float64
	}{
		{name: "over range clamps to full", yaw: 4, wantLeft: 200, wantRight: 0},
		{name: "under range clamps to full", yaw: -4, wantLeft: 0, wantRight: 200},
		{name: "nan is no yaw", yaw: math.NaN(), wantLeft: 100, wantRight: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := vectoredController(t, 0)
			fc := hoverContext()
			fc.YawDemand = tt.yaw

			var out Output
			c.vectoredYaw(fc, &out)
			assert.InDelta(t, tt.wantLeft, servo(t, out, ChannelTiltLeft), 1e-9)
			assert.InDelta(t, tt.wantRight, servo(t, out, ChannelTiltRight), 1e-9)
		})
	}
}

func TestVectoredYawRunsAfterDriver(t *testing.T) {
	c := vectoredController(t, 0)
	fc := hoverContext()
	fc.YawDemand = 0.5

	out := c.Update(fc)

	assert.InDelta(t, 0, servo(t, out, ChannelTilt), 1e-9)
	assert.InDelta(t, 150, servo(t, out, ChannelTiltLeft), 1e-9)
	assert.InDelta(t, 50, servo(t, out, ChannelTiltRight), 1e-9)
}
