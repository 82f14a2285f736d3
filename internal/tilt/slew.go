package tilt

import (
	"time"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

const (
	fullTravelDeg   = 90.0
	fastTiltRateDPS = 90.0
)

// MaxChange returns the largest tilt change, as a fraction of full travel,
// allowed in one tick of length fc.Dt.
func (c *Controller) MaxChange(dir Direction, fc types.FlightContext) float64 {
	rate := c.cfg.MaxRateUpDPS
	if dir == Down && c.cfg.MaxRateDownDPS > 0 {
		rate = c.cfg.MaxRateDownDPS
	}
	if dir == Down && c.cfg.Type != TypeBinary && pilotHasDirectControl(fc) {
		rate = max(rate, fastTiltRateDPS)
	}
	return rate * tickSeconds(fc.Dt) / fullTravelDeg
}

// pilotHasDirectControl is true in manual, or when armed in a fixed-wing
// mode with no VTOL assistance.
func pilotHasDirectControl(fc types.FlightContext) bool {
	if fc.Mode == types.ModeManual {
		return true
	}
	return fc.Armed && !fc.InVTOLMode && !fc.AssistedFlight
}

func tickSeconds(dt time.Duration) float64 {
	if dt <= 0 {
		return 0
	}
	return dt.Seconds()
}

// slew moves the tilt one rate-limited step toward target and writes the
// tilt servo.
func (c *Controller) slew(target float64, fc types.FlightContext, out *Output) {
	target = clamp(target, 0, 1)
	step := c.MaxChange(directionTo(c.state.CurrentTilt, target), fc)
	c.state.CurrentTilt = clamp(approach(c.state.CurrentTilt, target, step), 0, 1)

	out.Servos.Set(ChannelTilt, ServoRange*c.state.CurrentTilt)
	out.Compensator = c
}
