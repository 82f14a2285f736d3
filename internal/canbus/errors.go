package canbus

import "errors"

var (
	ErrNotConnected  = errors.New("canbus: not connected")
	ErrUnknownFrame  = errors.New("canbus: unknown frame id")
	ErrShortFrame    = errors.New("canbus: frame too short")
	ErrRemoteFrame   = errors.New("canbus: unexpected remote frame")
	ErrInvalidFields = errors.New("canbus: invalid field value")
)
