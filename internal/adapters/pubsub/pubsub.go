// Package pubsub delivers draft events to whoever is listening: local
// subscribers in process, or a NATS JetStream stream.
package pubsub

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/pkg/logger"
)

const (
	subscriberBuffer  = 64
	defaultRetainSize = 1000
)

// Publisher hands events to a transport.
type Publisher interface {
	Publish(ctx context.Context, e model.Event) error
	Name() string
	Close() error
}

// MemoryPublisher fans events out to in-process subscribers and keeps the
// most recent ones for replay. Slow subscribers miss events rather than
// block the publisher.
type MemoryPublisher struct {
	mu          sync.RWMutex
	subscribers []chan model.Event
	retained    []model.Event
	retain      int
	closed      bool
	log         logger.Logger
}

// NewMemoryPublisher creates a publisher that retains the last retain events
// (1000 when retain <= 0).
func NewMemoryPublisher(retain int) *MemoryPublisher {
	if retain <= 0 {
		retain = defaultRetainSize
	}
	return &MemoryPublisher{retain: retain, log: logger.Named("pubsub.memory")}
}

func (p *MemoryPublisher) Name() string { return "memory" }

func (p *MemoryPublisher) Publish(_ context.Context, e model.Event) error { //nolint:gocritic // events travel by value
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.retained = append(p.retained, e)
	if len(p.retained) > p.retain {
		p.retained = slices.Clone(p.retained[len(p.retained)-p.retain:])
	}

	// Sends never block, so fanning out under the lock is safe, and it keeps
	// Unsubscribe and Close from closing a channel mid-send.
	for _, ch := range p.subscribers {
		select {
		case ch <- e:
		default:
			p.log.Warn(context.Background(), "skipping slow subscriber",
				logger.String("event_type", string(e.Type)))
		}
	}
	return nil
}

// Subscribe returns a channel of events published from now on.
func (p *MemoryPublisher) Subscribe() chan model.Event {
	ch := make(chan model.Event, subscriberBuffer)
	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription.
func (p *MemoryPublisher) Unsubscribe(ch chan model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = slices.Delete(p.subscribers, i, i+1)
			close(ch)
			return
		}
	}
}

// Recent returns up to n retained events, oldest first. n <= 0 returns all.
func (p *MemoryPublisher) Recent(n int) []model.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	start := 0
	if n > 0 && n < len(p.retained) {
		start = len(p.retained) - n
	}
	return slices.Clone(p.retained[start:])
}

// Close closes every subscription.
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	for _, ch := range p.subscribers {
		close(ch)
	}
	p.subscribers = nil
	return nil
}
