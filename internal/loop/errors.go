package loop

import "errors"

// ErrSourceDone is returned by a Source that has no more samples.
var ErrSourceDone = errors.New("loop: source exhausted")
