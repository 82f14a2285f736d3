package scenario

import (
	"context"
	"log"
	"time"

	"github.com/eytandecker/tiltrotor-mcp/internal/loop"
	"github.com/eytandecker/tiltrotor-mcp/internal/mixer"
	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// Player steps through a Scenario in simulated time.
// A mode request overrides the scripted mode until the next segment starts.
type Player struct {
	scen    Scenario
	elapsed float64
	segment int

	override types.ControlMode
}

// NewPlayer creates a Player positioned at t=0.
func NewPlayer(s Scenario) *Player {
	return &Player{scen: s, segment: -1}
}

// Elapsed returns the simulated time in seconds.
func (p *Player) Elapsed() float64 { return p.elapsed }

// Next implements loop.Source.
func (p *Player) Next(_ context.Context, dt time.Duration) (loop.Sample, error) {
	t := p.elapsed
	if t > p.scen.Duration() {
		return loop.Sample{}, loop.ErrSourceDone
	}
	p.elapsed += dt.Seconds()

	idx := p.segmentAt(t)
	if idx != p.segment {
		seg := p.scen.Segments[idx]
		log.Printf("scenario: t=%.2fs segment %d: %s %s", t, idx, seg.Mode, seg.Comment)
		p.segment = idx
		p.override = types.ModeNone
	}

	seg := p.scen.Segments[idx]
	mode := seg.mode
	if p.override != types.ModeNone {
		mode = p.override
	}

	return loop.Sample{
		Context: types.FlightContext{
			Mode:           mode,
			InVTOLMode:     seg.InVTOL,
			Armed:          seg.Armed,
			AssistedFlight: seg.Assisted,
			Transition:     seg.transition,
			Throttle:       seg.throttleAt(t),
			TiltSwitchPWM:  seg.TiltSwitchPWM,
		},
		Demand: mixer.Demand{
			Throttle: seg.HoverThrottle,
			Roll:     seg.Roll,
			Pitch:    seg.Pitch,
			Yaw:      seg.Yaw,
		},
	}, nil
}

// RequestMode implements loop.Source.
func (p *Player) RequestMode(_ context.Context, mode types.ControlMode) error {
	p.override = mode
	return nil
}

// segmentAt returns the last segment starting at or before t. Segments are
// in time order; a segment lasts until the next one starts.
func (p *Player) segmentAt(t float64) int {
	idx := 0
	for i, seg := range p.scen.Segments {
		if t >= seg.T0 {
			idx = i
		}
	}
	return idx
}
