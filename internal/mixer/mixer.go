// Package mixer turns throttle and attitude demand into per-motor thrust.
package mixer

import (
	"math"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// ThrustCompensator is implemented by tilt.Controller.
// Defined here (consuming side) so the mixer does not depend on the tilt core.
type ThrustCompensator interface {
	CompensateThrust(thrust []float64)
}

// Demand is the attitude controller output for one tick. Throttle is 0..1,
// the axes are -1..1.
type Demand struct {
	Throttle float64
	Roll     float64
	Pitch    float64
	Yaw      float64
}

// Mixer is a matrix mixer with a rebindable thrust compensator.
// Not safe for concurrent use.
type Mixer struct {
	frame       Frame
	thrust      []float64
	compensator ThrustCompensator

	forwardThrottle float64
	forwardMask     types.MotorMask

	throttle float64
	yaw      float64
}

// New creates a Mixer for frame.
func New(frame Frame) *Mixer {
	return &Mixer{
		frame:  frame,
		thrust: make([]float64, len(frame.Motors)),
	}
}

// Frame returns the airframe layout.
func (m *Mixer) Frame() Frame { return m.frame }

// SetThrustCompensator binds tc for subsequent mixes. Nil unbinds.
func (m *Mixer) SetThrustCompensator(tc ThrustCompensator) {
	m.compensator = tc
}

// OutputMotorMask drives the masked motors at throttle on the next Mix,
// overriding the attitude solution for them.
func (m *Mixer) OutputMotorMask(throttle float64, mask types.MotorMask) {
	m.forwardThrottle = throttle
	m.forwardMask = mask
}

// Throttle returns the throttle used by the last Mix, zero before the first.
func (m *Mixer) Throttle() float64 { return m.throttle }

// Yaw returns the yaw demand used by the last Mix.
func (m *Mixer) Yaw() float64 { return m.yaw }

// Mix computes per-motor thrust in 0..1. The returned slice is reused by the
// next call.
func (m *Mixer) Mix(d Demand) []float64 {
	m.throttle = bound(d.Throttle, 0, 1)
	m.yaw = bound(d.Yaw, -1, 1)
	roll := bound(d.Roll, -1, 1)
	pitch := bound(d.Pitch, -1, 1)

	for i, f := range m.frame.Motors {
		m.thrust[i] = m.throttle + roll*f.Roll + pitch*f.Pitch + m.yaw*f.Yaw
	}

	if m.compensator != nil {
		m.compensator.CompensateThrust(m.thrust)
	}

	for i := range m.forwardMask.All() {
		if i < len(m.thrust) {
			m.thrust[i] = m.forwardThrottle
		}
	}
	m.forwardMask = 0

	for i, v := range m.thrust {
		m.thrust[i] = bound(v, 0, 1)
	}
	return m.thrust
}

func bound(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return min(max(v, lo), hi)
}
