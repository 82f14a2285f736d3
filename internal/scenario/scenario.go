// Package scenario replays a scripted flight as a loop.Source.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

var (
	ErrNoSegments     = errors.New("scenario: no segments")
	ErrUnknownMode    = errors.New("scenario: unknown control mode")
	ErrUnknownPhase   = errors.New("scenario: unknown transition phase")
	ErrBadSegmentTime = errors.New("scenario: segment end before start")
)

// Scenario is a scripted flight.
type Scenario struct {
	Meta     Meta      `json:"meta"`
	Segments []Segment `json:"segments"`
}

// Meta describes a scenario.
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Segment holds the flight state between T0 and T1 seconds. Throttle ramps
// linearly from Throttle to ThrottleEnd when ThrottleEnd is set.
type Segment struct {
	T0            float64  `json:"t0"`
	T1            float64  `json:"t1"`
	Mode          string   `json:"mode"`
	InVTOL        bool     `json:"in_vtol"`
	Armed         bool     `json:"armed"`
	Assisted      bool     `json:"assisted,omitempty"`
	Transition    string   `json:"transition,omitempty"`
	Throttle      float64  `json:"throttle,omitempty"`
	ThrottleEnd   *float64 `json:"throttle_end,omitempty"`
	HoverThrottle float64  `json:"hover_throttle,omitempty"`
	Roll          float64  `json:"roll,omitempty"`
	Pitch         float64  `json:"pitch,omitempty"`
	Yaw           float64  `json:"yaw,omitempty"`
	TiltSwitchPWM uint16   `json:"tilt_switch_pwm,omitempty"`
	Comment       string   `json:"comment,omitempty"`

	mode       types.ControlMode
	transition types.TransitionPhase
}

// Load reads and validates a scenario file.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse json: %w", err)
	}
	if err := s.resolve(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Duration returns the end time of the last segment in seconds.
func (s Scenario) Duration() float64 {
	end := 0.0
	for _, seg := range s.Segments {
		end = max(end, seg.T1)
	}
	return end
}

func (s *Scenario) resolve() error {
	if len(s.Segments) == 0 {
		return ErrNoSegments
	}
	for i := range s.Segments {
		seg := &s.Segments[i]
		if seg.T1 < seg.T0 {
			return fmt.Errorf("segment %d: %w", i, ErrBadSegmentTime)
		}
		mode, ok := types.ParseControlMode(seg.Mode)
		if !ok {
			return fmt.Errorf("segment %d: %w: %q", i, ErrUnknownMode, seg.Mode)
		}
		seg.mode = mode
		phase, ok := parseTransition(seg.Transition)
		if !ok {
			return fmt.Errorf("segment %d: %w: %q", i, ErrUnknownPhase, seg.Transition)
		}
		seg.transition = phase
	}
	return nil
}

func parseTransition(name string) (types.TransitionPhase, bool) {
	if name == "" {
		return types.TransitionDone, true
	}
	for p := types.TransitionAirspeedWait; p <= types.TransitionDone; p++ {
		if p.String() == name {
			return p, true
		}
	}
	return types.TransitionDone, false
}

// throttleAt returns the commanded throttle at time t within the segment.
func (seg Segment) throttleAt(t float64) float64 {
	if seg.ThrottleEnd == nil || seg.T1 <= seg.T0 {
		return seg.Throttle
	}
	frac := (t - seg.T0) / (seg.T1 - seg.T0)
	frac = min(max(frac, 0), 1)
	return seg.Throttle + frac*(*seg.ThrottleEnd-seg.Throttle)
}
