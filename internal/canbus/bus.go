package canbus

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go.einride.tech/can"

	"github.com/eytandecker/tiltrotor-mcp/internal/loop"
	"github.com/eytandecker/tiltrotor-mcp/internal/mixer"
	"github.com/eytandecker/tiltrotor-mcp/pkg/types"
)

// FrameConn is the subset of Client used by Bus.
type FrameConn interface {
	ReadNext() (can.Frame, error)
	WriteFrame(ctx context.Context, f can.Frame) error
}

// Bus adapts a Client to loop.Source and loop.Sink. Listen decodes incoming
// frames in the background; the control loop reads the latest values.
type Bus struct {
	conn       FrameConn
	staleAfter time.Duration

	mu       sync.Mutex
	fc       types.FlightContext
	demand   mixer.Demand
	lastRx   time.Time
	wasStale bool
}

// NewBus creates a Bus. Flight context older than staleAfter is replaced by
// a hover-recovery context; zero disables the check.
func NewBus(conn FrameConn, staleAfter time.Duration) *Bus {
	return &Bus{conn: conn, staleAfter: staleAfter, wasStale: true}
}

// safeContext holds the motors vertical and disarmed until the flight
// controller is heard from. It is always paired with zero mixer demand.
func safeContext() types.FlightContext {
	return types.FlightContext{Mode: types.ModeQStabilize, InVTOLMode: true}
}

// Listen reads frames until the connection fails or ctx is done.
func (b *Bus) Listen(ctx context.Context) error {
	done := make(chan error, 1)
	go b.readLoop(done)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (b *Bus) readLoop(done chan<- error) {
	for {
		f, err := b.conn.ReadNext()
		if err != nil {
			done <- err
			return
		}
		switch f.ID {
		case IDFlightContext:
			b.mu.Lock()
			fc := b.fc
			err = DecodeFlightContext(f, &fc)
			if err == nil {
				b.fc = fc
				b.lastRx = time.Now()
			}
			b.mu.Unlock()
		case IDMixerDemand:
			var d mixer.Demand
			d, err = DecodeMixerDemand(f)
			if err == nil {
				b.mu.Lock()
				b.demand = d
				b.mu.Unlock()
			}
		}
		if err != nil {
			log.Printf("canbus: decode frame 0x%X: %v", f.ID, err)
		}
	}
}

// Next implements loop.Source. It never fails: without fresh flight context
// it returns a hover-recovery sample with zero demand, whatever mixer demand
// was last received.
func (b *Bus) Next(_ context.Context, _ time.Duration) (loop.Sample, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stale := b.lastRx.IsZero() || (b.staleAfter > 0 && time.Since(b.lastRx) > b.staleAfter)
	if stale != b.wasStale {
		if stale {
			log.Printf("canbus: flight context stale, holding vertical")
		} else {
			log.Printf("canbus: flight context received")
		}
		b.wasStale = stale
	}
	if stale {
		return loop.Sample{Context: safeContext()}, nil
	}
	return loop.Sample{Context: b.fc, Demand: b.demand}, nil
}

// RequestMode implements loop.Source.
func (b *Bus) RequestMode(ctx context.Context, mode types.ControlMode) error {
	return b.conn.WriteFrame(ctx, EncodeModeRequest(mode))
}

// Emit implements loop.Sink.
func (b *Bus) Emit(ctx context.Context, t loop.Tick) error {
	var errs []error
	if t.Output.Servos.Any() {
		errs = append(errs, b.conn.WriteFrame(ctx, EncodeTiltServos(t.Output)))
	}
	errs = append(errs, b.conn.WriteFrame(ctx, EncodeForwardThrust(t.Output.Forward)))
	for _, f := range EncodeMotorThrust(t.Thrust) {
		errs = append(errs, b.conn.WriteFrame(ctx, f))
	}
	return errors.Join(errs...)
}
