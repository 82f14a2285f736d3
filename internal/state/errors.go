package state

import "errors"

var (
	// ErrStale is returned when no tick has been published within the stale threshold.
	ErrStale = errors.New("state: tilt telemetry is stale")

	// ErrLinkDown is returned while the actuator link reports a failure. The
	// link failure is wrapped alongside it.
	ErrLinkDown = errors.New("state: actuator link down")
)
