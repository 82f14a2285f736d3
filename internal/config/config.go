package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/eytandecker/tiltrotor-mcp/internal/mixer"
	"github.com/eytandecker/tiltrotor-mcp/internal/tilt"
	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

var (
	errParse = errors.New("cannot parse value")
	errRange = errors.New("value out of range")
)

// Config holds all application configuration.
type Config struct {
	Tilt     tilt.Config
	Loop     LoopConfig
	Frame    string
	CAN      CANConfig
	Scenario ScenarioConfig

	// Warnings lists every value that was ignored in favour of its default,
	// as *types.ConfigError.
	Warnings []error
}

// LoopConfig holds control loop settings.
type LoopConfig struct {
	Interval       time.Duration
	StaleThreshold time.Duration
}

// CANConfig holds SocketCAN settings. An empty Interface disables the bus.
type CANConfig struct {
	Interface      string
	WriteTimeout   time.Duration
	ContextTimeout time.Duration
}

// ScenarioConfig selects the scripted flight used when no CAN interface is
// configured. An empty Path plays the built-in scenario.
type ScenarioConfig struct {
	Path string
}

// Load reads configuration from environment variables, falling back to defaults.
func Load() Config {
	var l loader
	def := tilt.DefaultConfig()

	cfg := Config{
		Tilt: tilt.Config{
			Type:           l.getTiltType("TILT_TYPE", def.Type),
			Mask:           types.MotorMask(l.getUint("TILT_MASK", 0, 32)),
			MaxRateUpDPS:   l.getFloat("TILT_RATE_UP", def.MaxRateUpDPS),
			MaxRateDownDPS: l.getFloat("TILT_RATE_DN", def.MaxRateDownDPS),
			MaxAngleDeg:    l.getFloat("TILT_MAX", def.MaxAngleDeg),
			YawAngleDeg:    l.getFloat("TILT_YAW_ANGLE", def.YawAngleDeg),
			ManualSwitch: tilt.ManualSwitchConfig{
				Enabled: l.getBool("TILT_MANUAL_SWITCH", false),
				HighPWM: uint16(l.getUint("TILT_SWITCH_HIGH", uint64(def.ManualSwitch.HighPWM), 16)),
				LowPWM:  uint16(l.getUint("TILT_SWITCH_LOW", uint64(def.ManualSwitch.LowPWM), 16)),
			},
		},
		Loop: LoopConfig{
			Interval:       l.getRate("LOOP_RATE_HZ", 100),
			StaleThreshold: l.getDuration("STALE_THRESHOLD", time.Second),
		},
		Frame: l.getFrame("FRAME_LAYOUT", "quad_x"),
		CAN: CANConfig{
			Interface:      getEnvString("CAN_IFACE", ""),
			WriteTimeout:   l.getDuration("CAN_WRITE_TIMEOUT", 20*time.Millisecond),
			ContextTimeout: l.getDuration("CAN_CONTEXT_TIMEOUT", 500*time.Millisecond),
		},
		Scenario: ScenarioConfig{
			Path: getEnvString("SCENARIO_PATH", ""),
		},
	}
	cfg.Tilt = cfg.Tilt.Sanitize()
	cfg.Warnings = l.warnings
	return cfg
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// loader reads typed values and remembers the ones it had to reject.
type loader struct {
	warnings []error
}

func (l *loader) reject(key, value string, err error) {
	l.warnings = append(l.warnings, &types.ConfigError{Key: key, Value: value, Err: err})
}

func (l *loader) getUint(key string, defaultVal uint64, bits int) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseUint(v, 0, bits)
	if err != nil {
		l.reject(key, v, errParse)
		return defaultVal
	}
	return n
}

func (l *loader) getFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.reject(key, v, errParse)
		return defaultVal
	}
	return f
}

func (l *loader) getBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.reject(key, v, errParse)
		return defaultVal
	}
	return b
}

func (l *loader) getDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.reject(key, v, errParse)
		return defaultVal
	}
	return d
}

// getRate reads a frequency in Hz and returns its period.
func (l *loader) getRate(key string, defaultHz float64) time.Duration {
	hz := l.getFloat(key, defaultHz)
	if hz <= 0 || hz > 1000 {
		l.reject(key, os.Getenv(key), errRange)
		hz = defaultHz
	}
	return time.Duration(float64(time.Second) / hz)
}

// getTiltType returns an invalid Type for unknown names, which leaves the
// controller inert instead of guessing a topology.
func (l *loader) getTiltType(key string, defaultVal tilt.Type) tilt.Type {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	t, ok := tilt.ParseType(v)
	if !ok {
		l.reject(key, v, errParse)
		return tilt.Type(-1)
	}
	return t
}

func (l *loader) getFrame(key, defaultVal string) string {
	v := getEnvString(key, defaultVal)
	if _, ok := mixer.ParseFrame(v); !ok {
		l.reject(key, v, errParse)
		return defaultVal
	}
	return v
}
