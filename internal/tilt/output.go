package tilt

import "github.com/eytandecker/tiltrotor-mcp/pkg/types"

// ServoRange is the scaled actuator output range used for servo writes.
const ServoRange = 1000.0

// ServoChannel names a logical servo output.
type ServoChannel int

const (
	ChannelTilt ServoChannel = iota
	ChannelTiltLeft
	ChannelTiltRight
	numServoChannels
)

func (ch ServoChannel) String() string {
	switch ch {
	case ChannelTilt:
		return "motor_tilt"
	case ChannelTiltLeft:
		return "tilt_motor_left"
	case ChannelTiltRight:
		return "tilt_motor_right"
	default:
		return "unknown"
	}
}

// ServoOutputs holds the servo writes made during one tick.
type ServoOutputs struct {
	values  [numServoChannels]float64
	written [numServoChannels]bool
}

// Set records a write of v to ch.
func (s *ServoOutputs) Set(ch ServoChannel, v float64) {
	if ch < 0 || ch >= numServoChannels {
		return
	}
	s.values[ch] = v
	s.written[ch] = true
}

// Get returns the value written to ch and whether it was written this tick.
func (s ServoOutputs) Get(ch ServoChannel) (float64, bool) {
	if ch < 0 || ch >= numServoChannels {
		return 0, false
	}
	return s.values[ch], s.written[ch]
}

// Any reports whether any channel was written.
func (s ServoOutputs) Any() bool {
	for _, w := range s.written {
		if w {
			return true
		}
	}
	return false
}

// ForwardThrust asks the mixer to drive the masked motors at Throttle as
// forward propulsion.
type ForwardThrust struct {
	Throttle float64
	Mask     types.MotorMask
}

// Active reports whether a forward thrust request was made.
func (f ForwardThrust) Active() bool { return !f.Mask.Empty() }

// ThrustCompensator rewrites per-motor thrust after nominal mixing.
// len(thrust) is the motor count.
type ThrustCompensator interface {
	CompensateThrust(thrust []float64)
}

// Output is everything one Update produced for the host to act on.
type Output struct {
	Servos        ServoOutputs
	Forward       ForwardThrust
	MotorsActive  bool
	RequestedMode types.ControlMode // ModeNone when no change is requested

	// Compensator must be bound on the mixer before this tick's mix.
	// Nil when no driver ran.
	Compensator ThrustCompensator
}
