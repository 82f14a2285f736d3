package mixer

// MotorFactors is one motor's response to unit roll, pitch and yaw demand.
// Positive roll raises the left motors, positive pitch raises the front
// motors, positive yaw raises the counter-clockwise motors.
type MotorFactors struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// Frame is an airframe motor layout. Motor indices follow slice order.
type Frame struct {
	Name   string
	Motors []MotorFactors
}

// QuadX is an X quad: 0 front-right, 1 front-left, 2 rear-left, 3 rear-right.
// The front pair is the usual tilt mask (0b0011).
func QuadX() Frame {
	return Frame{
		Name: "quad_x",
		Motors: []MotorFactors{
			{Roll: -0.5, Pitch: 0.5, Yaw: 0.5},
			{Roll: 0.5, Pitch: 0.5, Yaw: -0.5},
			{Roll: 0.5, Pitch: -0.5, Yaw: 0.5},
			{Roll: -0.5, Pitch: -0.5, Yaw: -0.5},
		},
	}
}

// QuadH is QuadX with the yaw directions reversed.
func QuadH() Frame {
	f := QuadX()
	f.Name = "quad_h"
	for i := range f.Motors {
		f.Motors[i].Yaw = -f.Motors[i].Yaw
	}
	return f
}

// ParseFrame returns the preset frame with the given name.
func ParseFrame(name string) (Frame, bool) {
	switch name {
	case "quad_x":
		return QuadX(), true
	case "quad_h":
		return QuadH(), true
	default:
		return Frame{}, false
	}
}
