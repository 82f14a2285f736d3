package tilt

import "github.com/eytandecker/tiltrotor-mcp/pkg/types"

func (c *Controller) updateBinary(fc types.FlightContext, out *Output) {
	c.state.MotorsActive = true

	forward := !fc.InVTOLMode
	c.binarySlew(forward, fc, out)

	if forward && c.state.CurrentTilt >= 1 {
		throttle := clamp(fc.Throttle, 0, 1)
		if throttle > 0 {
			out.Forward = ForwardThrust{Throttle: throttle, Mask: c.cfg.Mask}
		}
	}
}

// binarySlew commands the servo to one end stop while the modelled tilt
// travels toward it at the configured rate.
func (c *Controller) binarySlew(forward bool, fc types.FlightContext, out *Output) {
	if forward {
		out.Servos.Set(ChannelTilt, ServoRange)
		c.state.CurrentTilt = clamp(c.state.CurrentTilt+c.MaxChange(Up, fc), 0, 1)
	} else {
		out.Servos.Set(ChannelTilt, 0)
		c.state.CurrentTilt = clamp(c.state.CurrentTilt-c.MaxChange(Down, fc), 0, 1)
	}
	out.Compensator = c
}
