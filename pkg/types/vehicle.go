package types

import "time"

// ControlMode is the vehicle's current flight mode as reported by the outer
// mode state machine.
type ControlMode int

const (
	ModeNone ControlMode = iota // no mode, used for "no mode change requested"
	ModeManual
	ModeStabilize
	ModeFlyByWireA
	ModeFlyByWireB
	ModeCruise
	ModeAuto
	ModeRTL
	ModeQStabilize
	ModeQHover
	ModeQLoiter
	ModeQLand
	ModeQRTL
)

var controlModeNames = map[ControlMode]string{
	ModeNone:       "NONE",
	ModeManual:     "MANUAL",
	ModeStabilize:  "STABILIZE",
	ModeFlyByWireA: "FBWA",
	ModeFlyByWireB: "FBWB",
	ModeCruise:     "CRUISE",
	ModeAuto:       "AUTO",
	ModeRTL:        "RTL",
	ModeQStabilize: "QSTABILIZE",
	ModeQHover:     "QHOVER",
	ModeQLoiter:    "QLOITER",
	ModeQLand:      "QLAND",
	ModeQRTL:       "QRTL",
}

func (m ControlMode) String() string {
	if s, ok := controlModeNames[m]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseControlMode returns the mode whose String() equals name.
func ParseControlMode(name string) (ControlMode, bool) {
	for m, s := range controlModeNames {
		if s == name {
			return m, true
		}
	}
	return ModeNone, false
}

// TransitionPhase tracks progress of a VTOL to fixed-wing transition.
// Phases are ordered; later phases compare greater.
type TransitionPhase int

const (
	TransitionAirspeedWait TransitionPhase = iota
	TransitionTimer
	TransitionAngleWait
	TransitionDone
)

func (p TransitionPhase) String() string {
	switch p {
	case TransitionAirspeedWait:
		return "AIRSPEED_WAIT"
	case TransitionTimer:
		return "TIMER"
	case TransitionAngleWait:
		return "ANGLE_WAIT"
	case TransitionDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// FlightContext is the read-only snapshot handed to the tilt controller on
// every control tick.
type FlightContext struct {
	Mode           ControlMode
	InVTOLMode     bool
	Armed          bool
	AssistedFlight bool
	Transition     TransitionPhase
	Throttle       float64 // commanded forward throttle, 0..1
	MixerThrottle  float64 // throttle the VTOL mixer is currently flying, 0..1
	YawDemand      float64 // mixer yaw demand, -1..1
	TiltSwitchPWM  uint16  // raw tilt switch channel, 0 when not fitted
	Dt             time.Duration
}
