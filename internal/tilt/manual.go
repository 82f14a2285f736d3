package tilt

import "github.com/eytandecker/tiltrotor-mcp/pkg/types"

// updateManual steps the tilt from the RC tilt switch instead of the flight
// mode, and asks the mode machine to follow the tilt: fixed-wing once past
// the gang threshold, VTOL stabilize below it.
func (c *Controller) updateManual(fc types.FlightContext, out *Output) {
	sw := c.cfg.ManualSwitch
	switch {
	case fc.TiltSwitchPWM > sw.HighPWM:
		c.state.CurrentTilt = clamp(c.state.CurrentTilt+c.MaxChange(Up, fc), 0, 1)
	case fc.TiltSwitchPWM < sw.LowPWM:
		c.state.CurrentTilt = clamp(c.state.CurrentTilt-c.MaxChange(Down, fc), 0, 1)
	}
	out.Servos.Set(ChannelTilt, ServoRange*c.state.CurrentTilt)
	out.Compensator = c

	throttle := 0.0
	if fc.Armed {
		throttle = clamp(fc.Throttle, 0, 1)
	}
	c.state.CurrentThrottle = throttle

	if c.state.CurrentTilt >= c.cfg.gangThreshold() {
		out.RequestedMode = types.ModeFlyByWireA
		c.state.MotorsActive = true
		if throttle > 0 {
			out.Forward = ForwardThrust{Throttle: throttle, Mask: c.cfg.Mask}
		}
		return
	}
	out.RequestedMode = types.ModeQStabilize
	c.state.MotorsActive = false
}
