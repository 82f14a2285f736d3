package tilt

import "math"

// State is the mutable runtime state. The zero value is full hover.
type State struct {
	CurrentTilt     float64 // 0 = vertical, 1 = fully forward
	CurrentThrottle float64 // smoothed forward-motor throttle
	MotorsActive    bool    // tilted motors are producing forward thrust
}

// Direction of a slew. Up moves toward forward flight (tilt increasing),
// Down moves back toward vertical (tilt decreasing).
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// approach moves cur toward target by at most step.
func approach(cur, target, step float64) float64 {
	if math.IsNaN(target) {
		return cur
	}
	return clamp(target, cur-step, cur+step)
}

func directionTo(cur, target float64) Direction {
	if target < cur {
		return Down
	}
	return Up
}
