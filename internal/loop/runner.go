// Package loop runs the tilt controller and mixer at a fixed rate.
package loop

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eytandecker/tiltrotor-mcp/internal/mixer"
	"github.com/eytandecker/tiltrotor-mcp/internal/tilt"
	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// Sample is the per-tick input from the outside world: the flight-mode
// snapshot and the attitude controller's mixer demand.
type Sample struct {
	Context types.FlightContext
	Demand  mixer.Demand
}

// Source supplies samples and receives mode change requests.
type Source interface {
	Next(ctx context.Context, dt time.Duration) (Sample, error)
	RequestMode(ctx context.Context, mode types.ControlMode) error
}

// Tick is one completed control cycle.
type Tick struct {
	Seq    uint64
	Output tilt.Output
	Thrust []float64 // owned by the mixer, valid until the next tick
}

// Sink receives the actuator commands of every tick.
type Sink interface {
	Emit(ctx context.Context, t Tick) error
}

// TelemetryUpdater is implemented by state.Manager.
// Defined here (consuming side) to avoid import cycles.
type TelemetryUpdater interface {
	Update(t types.TiltTelemetry)
}

// Config holds runner settings.
type Config struct {
	Interval time.Duration
}

// DefaultConfig returns a 100 Hz loop.
func DefaultConfig() Config {
	return Config{Interval: 10 * time.Millisecond}
}

// Runner owns the controller and mixer; nothing else may touch them while
// it runs.
type Runner struct {
	ctrl    *tilt.Controller
	mix     *mixer.Mixer
	src     Source
	sink    Sink
	updater TelemetryUpdater
	cfg     Config
	session string

	seq       uint64
	lastPhase tilt.Phase
	lastMode  types.ControlMode
}

// NewRunner creates a Runner with a fresh session ID.
func NewRunner(ctrl *tilt.Controller, mix *mixer.Mixer, src Source, sink Sink, updater TelemetryUpdater, cfg Config) *Runner {
	return &Runner{
		ctrl:      ctrl,
		mix:       mix,
		src:       src,
		sink:      sink,
		updater:   updater,
		cfg:       cfg,
		session:   uuid.NewString(),
		lastPhase: -1,
	}
}

// Start blocks, stepping once per interval until ctx is cancelled or the
// source is exhausted. Exhaustion returns nil.
func (r *Runner) Start(ctx context.Context) error {
	log.Printf("loop: session %s started", r.session)
	interval := r.cfg.Interval
	if interval <= 0 {
		interval = DefaultConfig().Interval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := r.Step(ctx, interval)
			if errors.Is(err, ErrSourceDone) {
				log.Printf("loop: source finished after %d ticks", r.seq)
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

// Session identifies this runner in published telemetry.
func (r *Runner) Session() string { return r.session }

// Step runs one control cycle of length dt.
func (r *Runner) Step(ctx context.Context, dt time.Duration) error {
	sample, err := r.src.Next(ctx, dt)
	if err != nil {
		return err
	}

	fc := sample.Context
	fc.Dt = dt
	// the tilt core sees what the mixer flew on the previous tick
	fc.MixerThrottle = r.mix.Throttle()
	fc.YawDemand = r.mix.Yaw()

	out := r.ctrl.Update(fc)

	// rebind every tick so a mixer reset never keeps a stale compensator
	r.mix.SetThrustCompensator(out.Compensator)
	if out.Forward.Active() {
		r.mix.OutputMotorMask(out.Forward.Throttle, out.Forward.Mask)
	}
	thrust := r.mix.Mix(sample.Demand)
	r.seq++

	r.logTransitions(fc, out)

	if out.RequestedMode != types.ModeNone && out.RequestedMode != fc.Mode {
		if err := r.src.RequestMode(ctx, out.RequestedMode); err != nil {
			log.Printf("loop: request mode %s: %v", out.RequestedMode, err)
		}
	}

	if err := r.sink.Emit(ctx, Tick{Seq: r.seq, Output: out, Thrust: thrust}); err != nil {
		return err
	}

	if r.updater != nil {
		r.updater.Update(r.telemetry(fc, out, thrust))
	}
	return nil
}

func (r *Runner) logTransitions(fc types.FlightContext, out tilt.Output) {
	if !r.ctrl.Enabled() {
		return
	}
	if phase := tilt.SelectPhase(fc); phase != r.lastPhase && r.ctrl.Config().Type != tilt.TypeBinary {
		log.Printf("loop: tick %d: tilt phase %s (mode %s, tilt %.3f)", r.seq, phase, fc.Mode, r.ctrl.State().CurrentTilt)
		r.lastPhase = phase
	}
	if out.RequestedMode != types.ModeNone && out.RequestedMode != r.lastMode {
		log.Printf("loop: tick %d: requesting mode %s", r.seq, out.RequestedMode)
		r.lastMode = out.RequestedMode
	}
}

func (r *Runner) telemetry(fc types.FlightContext, out tilt.Output, thrust []float64) types.TiltTelemetry {
	st := r.ctrl.State()
	tiltServo, _ := out.Servos.Get(tilt.ChannelTilt)
	left, _ := out.Servos.Get(tilt.ChannelTiltLeft)
	right, _ := out.Servos.Get(tilt.ChannelTiltRight)

	t := types.TiltTelemetry{
		Session:         r.session,
		Tick:            r.seq,
		Mode:            fc.Mode,
		InVTOLMode:      fc.InVTOLMode,
		Armed:           fc.Armed,
		Transition:      fc.Transition,
		CurrentTilt:     st.CurrentTilt,
		CurrentThrottle: st.CurrentThrottle,
		MotorsActive:    out.MotorsActive,
		TiltServo:       tiltServo,
		LeftServo:       left,
		RightServo:      right,
		ForwardThrottle: out.Forward.Throttle,
		ForwardMask:     out.Forward.Mask,
		RequestedMode:   out.RequestedMode,
		MotorThrust:     thrust,
	}
	switch {
	case !r.ctrl.Enabled():
		t.Phase = "inactive"
	case r.ctrl.Config().Type == tilt.TypeBinary:
		t.Phase = "binary"
	case r.ctrl.Config().ManualSwitch.Enabled:
		t.Phase = "manual_switch"
	default:
		t.Phase = tilt.SelectPhase(fc).String()
	}
	return t
}
