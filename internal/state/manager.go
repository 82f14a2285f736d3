package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// Snapshot is the latest published tick as seen by a reader.
type Snapshot struct {
	Telemetry types.TiltTelemetry
	Age       time.Duration // time since the tick was published
	Restarts  int           // control loop sessions replaced since start
}

// Manager sits between the control loop and its readers. The loop publishes
// one tick at a time and the host reports the actuator link; readers get a
// copy of the latest tick or the reason there is none.
type Manager struct {
	mu       sync.RWMutex
	latest   types.TiltTelemetry
	at       time.Time
	restarts int
	linkErr  error
	maxAge   time.Duration
}

// NewManager creates a Manager. Ticks older than maxAge are reported as
// ErrStale; zero disables the check.
func NewManager(maxAge time.Duration) *Manager {
	return &Manager{maxAge: maxAge}
}

// Update publishes a tick. A tick from a different session than the previous
// one counts as a loop restart. The motor thrust slice is copied.
func (m *Manager) Update(t types.TiltTelemetry) {
	t.MotorThrust = slices.Clone(t.MotorThrust)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.at.IsZero() && t.Session != m.latest.Session {
		m.restarts++
	}
	m.latest = t
	m.at = now
}

// SetLinkError records the actuator link state. A nil err marks the link up.
func (m *Manager) SetLinkError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.linkErr = err
}

// Snapshot returns a copy of the latest tick. It fails with ErrLinkDown while
// the link is reported down, and with ErrStale before the first tick or once
// the latest one is older than the threshold.
func (m *Manager) Snapshot() (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.linkErr != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrLinkDown, m.linkErr)
	}
	if m.at.IsZero() {
		return Snapshot{}, ErrStale
	}
	age := time.Since(m.at)
	if m.maxAge > 0 && age > m.maxAge {
		return Snapshot{}, fmt.Errorf("%w: last tick %s ago", ErrStale, age.Round(time.Millisecond))
	}

	s := Snapshot{Telemetry: m.latest, Age: age, Restarts: m.restarts}
	s.Telemetry.MotorThrust = slices.Clone(m.latest.MotorThrust)
	return s, nil
}
