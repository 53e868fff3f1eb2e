package pubsub

import "errors"

// Sentinel kinds for publisher errors.
var (
	ErrClosed  = errors.New("publisher closed")
	ErrConnect = errors.New("nats connection failed")
	ErrStream  = errors.New("jetstream stream setup failed")
)
