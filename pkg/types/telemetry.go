package types

// TiltTelemetry is one control tick as seen from outside the control loop.
type TiltTelemetry struct {
	Session         string // changes whenever the control loop restarts
	Tick            uint64
	Mode            ControlMode
	InVTOLMode      bool
	Armed           bool
	Transition      TransitionPhase
	Phase           string
	CurrentTilt     float64
	CurrentThrottle float64
	MotorsActive    bool
	TiltServo       float64
	LeftServo       float64
	RightServo      float64
	ForwardThrottle float64
	ForwardMask     MotorMask
	RequestedMode   ControlMode
	MotorThrust     []float64
}
