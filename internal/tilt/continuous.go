package tilt

import "github.com/eytandecker/tiltrotor-mcp/pkg/types"

// Phase is the continuous driver's regime for one tick, in priority order.
type Phase int

const (
	PhaseFixedWing         Phase = iota // not in VTOL and not assisting: run tilted motors as forward motors
	PhaseRecoveryHover                  // QSTABILIZE/QHOVER: hold vertical
	PhaseForwardTransition              // assisted transition past the airspeed wait: go fully forward
	PhaseBoundedTilt                    // tilt follows forward throttle, capped at MaxAngleDeg
)

func (p Phase) String() string {
	switch p {
	case PhaseFixedWing:
		return "fixed_wing"
	case PhaseRecoveryHover:
		return "recovery_hover"
	case PhaseForwardTransition:
		return "forward_transition"
	case PhaseBoundedTilt:
		return "bounded_tilt"
	default:
		return "unknown"
	}
}

// SelectPhase picks the continuous driver regime for fc.
func SelectPhase(fc types.FlightContext) Phase {
	switch {
	case !fc.InVTOLMode && (!fc.Armed || !fc.AssistedFlight):
		return PhaseFixedWing
	case fc.Mode == types.ModeQStabilize || fc.Mode == types.ModeQHover:
		return PhaseRecoveryHover
	case fc.AssistedFlight && fc.Transition >= types.TransitionTimer:
		return PhaseForwardTransition
	default:
		return PhaseBoundedTilt
	}
}

// boundedTiltThrottle is the forward throttle at which the bounded tilt
// reaches MaxAngleDeg.
const boundedTiltThrottle = 0.5

func (c *Controller) updateContinuous(fc types.FlightContext, out *Output) {
	c.state.MotorsActive = false

	phase := SelectPhase(fc)
	if phase == PhaseFixedWing {
		c.updateFixedWing(fc, out)
		return
	}

	// track the throttle the VTOL motors are flying
	target := clamp(fc.MixerThrottle, 0, 1)
	step := c.MaxChange(directionTo(c.state.CurrentThrottle, target), fc)
	c.state.CurrentThrottle = approach(c.state.CurrentThrottle, target, step)

	c.slew(c.targetTilt(phase, fc), fc, out)
}

func (c *Controller) targetTilt(phase Phase, fc types.FlightContext) float64 {
	switch phase {
	case PhaseRecoveryHover:
		return 0
	case PhaseFixedWing, PhaseForwardTransition:
		return 1
	default:
		return clamp(fc.Throttle/boundedTiltThrottle, 0, 1) * c.cfg.gangThreshold()
	}
}

func (c *Controller) updateFixedWing(fc types.FlightContext, out *Output) {
	c.slew(1, fc, out)

	throttle := clamp(fc.Throttle, 0, 1)
	if c.state.CurrentTilt < 1 {
		throttle = approach(c.state.CurrentThrottle, throttle, c.MaxChange(Down, fc))
	}
	if !fc.Armed {
		throttle = 0
	}
	c.state.CurrentThrottle = throttle

	if throttle > 0 {
		c.state.MotorsActive = true
		out.Forward = ForwardThrust{Throttle: throttle, Mask: c.cfg.Mask}
	}
}
