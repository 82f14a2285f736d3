package tilt

import (
	"math"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// vectoredYaw drives the left and right tilt servos differentially for yaw
// until the tilt passes the gang threshold.
func (c *Controller) vectoredYaw(fc types.FlightContext, out *Output) {
	totalAngle := fullTravelDeg + c.cfg.YawAngleDeg
	// servo fraction that points the motors straight up
	zeroOut := c.cfg.YawAngleDeg / totalAngle
	base := zeroOut + c.state.CurrentTilt*(1-zeroOut)

	if c.state.CurrentTilt > c.cfg.gangThreshold() {
		out.Servos.Set(ChannelTiltLeft, ServoRange*base)
		out.Servos.Set(ChannelTiltRight, ServoRange*base)
		return
	}

	yaw := fc.YawDemand
	if math.IsNaN(yaw) {
		yaw = 0
	}
	yaw = clamp(yaw, -1, 1)
	yawRange := zeroOut

	out.Servos.Set(ChannelTiltLeft, ServoRange*(base+yaw*yawRange))
	out.Servos.Set(ChannelTiltRight, ServoRange*(base-yaw*yawRange))
}
