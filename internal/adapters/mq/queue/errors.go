package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrClosed = errors.New("event queue closed")
	ErrFull   = errors.New("event queue full")
)
