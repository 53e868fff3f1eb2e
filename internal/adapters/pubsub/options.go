package pubsub

import (
	"time"

	"github.com/nats-io/nats.go"
)

// Option applies a configuration option to the NATSPublisher.
type Option func(*NATSPublisher)

// WithStream names the JetStream stream holding the events.
func WithStream(name string) Option {
	return func(p *NATSPublisher) {
		if name != "" {
			p.stream = name
		}
	}
}

// WithMaxAge bounds how long the stream keeps events. Zero keeps them.
func WithMaxAge(d time.Duration) Option {
	return func(p *NATSPublisher) {
		if d >= 0 {
			p.maxAge = d
		}
	}
}

// WithMemoryStorage keeps the stream in server memory instead of on disk.
func WithMemoryStorage() Option {
	return func(p *NATSPublisher) {
		p.storage = nats.MemoryStorage
	}
}
