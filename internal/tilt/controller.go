// Package tilt drives the tilt servos of a tiltrotor or tiltwing VTOL and
// compensates mixer thrust for the tilt angle of the tilted motors.
//
// A Controller is owned by the control loop. Update and CompensateThrust
// must be called from the same goroutine; there is no internal locking.
package tilt

import "github.com/eytandecker/tiltrotor-mcp/pkg/types"

// Controller holds the tilt configuration and runtime state.
type Controller struct {
	cfg   Config
	state State

	// inVTOL is latched by Update for the compensator, which the mixer
	// calls later in the same tick.
	inVTOL bool
}

// New creates a Controller in full hover. The config is sanitized first.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg.Sanitize()}
}

// Config returns the sanitized configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns a copy of the runtime state.
func (c *Controller) State() State { return c.state }

// Enabled reports whether any motor is tiltable.
func (c *Controller) Enabled() bool { return !c.cfg.Mask.Empty() }

// FullyForward reports whether the tilted motors are all the way forward.
func (c *Controller) FullyForward() bool {
	return c.Enabled() && c.state.CurrentTilt >= 1
}

// Update runs one control tick. With an empty mask it does nothing and
// returns a zero Output.
func (c *Controller) Update(fc types.FlightContext) Output {
	var out Output
	if !c.Enabled() {
		return out
	}
	c.inVTOL = fc.InVTOLMode

	switch {
	case c.cfg.Type == TypeBinary:
		c.updateBinary(fc, &out)
	case c.cfg.ManualSwitch.Enabled:
		c.updateManual(fc, &out)
	default:
		c.updateContinuous(fc, &out)
	}

	if c.cfg.Type == TypeVectoredYaw {
		c.vectoredYaw(fc, &out)
	}

	out.MotorsActive = c.state.MotorsActive
	return out
}
