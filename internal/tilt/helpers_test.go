package tilt

import (
	"time"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

const tick = 10 * time.Millisecond

func testConfig(tt Type) Config {
	cfg := DefaultConfig()
	cfg.Type = tt
	cfg.Mask = types.MaskOf(0, 1)
	cfg.MaxRateUpDPS = 40
	cfg.MaxRateDownDPS = 20
	cfg.MaxAngleDeg = 45
	return cfg
}

func hoverContext() types.FlightContext {
	return types.FlightContext{
		Mode:           types.ModeQHover,
		InVTOLMode:     true,
		Armed:          true,
		AssistedFlight: false,
		Transition:     types.TransitionAirspeedWait,
		Dt:             tick,
	}
}

func fixedWingContext() types.FlightContext {
	return types.FlightContext{
		Mode:       types.ModeFlyByWireA,
		InVTOLMode: false,
		Armed:      true,
		Transition: types.TransitionDone,
		Dt:         tick,
	}
}

// stepFor converts a deg/s rate into a tilt fraction per tick.
func stepFor(rateDPS float64) float64 {
	return rateDPS * tick.Seconds() / 90
}
