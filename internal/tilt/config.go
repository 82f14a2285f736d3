package tilt

import (
	"math"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// Type selects the tilt actuator topology.
type Type int

const (
	TypeContinuous Type = iota
	TypeBinary
	TypeVectoredYaw
)

func (t Type) String() string {
	switch t {
	case TypeContinuous:
		return "continuous"
	case TypeBinary:
		return "binary"
	case TypeVectoredYaw:
		return "vectored_yaw"
	default:
		return "unknown"
	}
}

// ParseType maps a configuration name to a Type.
func ParseType(name string) (Type, bool) {
	for _, t := range []Type{TypeContinuous, TypeBinary, TypeVectoredYaw} {
		if t.String() == name {
			return t, true
		}
	}
	return TypeContinuous, false
}

// ManualSwitchConfig gates the RC switch tilt override. PWM above HighPWM
// tilts forward, below LowPWM tilts back to vertical, anything between holds.
type ManualSwitchConfig struct {
	Enabled bool
	HighPWM uint16
	LowPWM  uint16
}

// Config is fixed for a flight session. Changing it means building a new
// Controller.
type Config struct {
	Type           Type
	Mask           types.MotorMask
	MaxRateUpDPS   float64
	MaxRateDownDPS float64 // <= 0 falls back to MaxRateUpDPS
	MaxAngleDeg    float64 // tilt beyond this gangs the tilted motors
	YawAngleDeg    float64 // extra servo travel past vertical reserved for yaw
	ManualSwitch   ManualSwitchConfig
}

// DefaultConfig returns the stock parameter set with no tiltable motors.
func DefaultConfig() Config {
	return Config{
		Type:         TypeContinuous,
		MaxRateUpDPS: 40,
		MaxAngleDeg:  45,
		ManualSwitch: ManualSwitchConfig{
			HighPWM: 1749,
			LowPWM:  1230,
		},
	}
}

// Sanitize clamps every field into its usable range. An unknown Type
// clears the mask, leaving the controller inert.
func (c Config) Sanitize() Config {
	switch c.Type {
	case TypeContinuous, TypeBinary, TypeVectoredYaw:
	default:
		c.Mask = 0
	}
	c.MaxRateUpDPS = clamp(c.MaxRateUpDPS, 0, math.MaxFloat64)
	c.MaxRateDownDPS = clamp(c.MaxRateDownDPS, 0, math.MaxFloat64)
	c.MaxAngleDeg = clamp(c.MaxAngleDeg, 0, fullTravelDeg)
	c.YawAngleDeg = clamp(c.YawAngleDeg, 0, fullTravelDeg)
	return c
}

// gangThreshold is MaxAngleDeg expressed as a tilt fraction.
func (c Config) gangThreshold() float64 {
	return c.MaxAngleDeg / fullTravelDeg
}
