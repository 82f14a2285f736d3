package loop

import (
	"context"
	"log"

	"github.com/eytandecker/tiltrotor-mcp/internal/tilt"
)

// LogSink logs every Every-th tick. It stands in for an actuator bus when
// none is configured.
type LogSink struct {
	Every uint64
}

// Emit implements Sink.
func (s LogSink) Emit(_ context.Context, t Tick) error {
	if s.Every == 0 || t.Seq%s.Every != 0 {
		return nil
	}
	servo, _ := t.Output.Servos.Get(tilt.ChannelTilt)
	log.Printf("loop: tick %d: tilt servo %.0f, forward %.2f mask %#x, thrust %.3f",
		t.Seq, servo, t.Output.Forward.Throttle, uint32(t.Output.Forward.Mask), t.Thrust)
	return nil
}
