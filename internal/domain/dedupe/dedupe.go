// Package dedupe guards side effects that must happen at most once, such as
// handing a drafted player to a roster.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Guard remembers claimed keys.
type Guard interface {
	// Claim records key and reports whether this call was the first to do so.
	Claim(ctx context.Context, key string) bool

	// Release forgets key so a failed side effect can be retried.
	Release(ctx context.Context, key string)

	Size() int64
}

// memoryGuard keeps keys in a map. When bounded, the oldest claims are
// forgotten first once the ring is full.
type memoryGuard struct {
	mu      sync.Mutex
	seen    map[string]int // key -> ring slot, -1 when unbounded
	ring    []string
	next    int
	maxSize int
	size    atomic.Int64
}

// NewMemoryGuard creates an in-memory guard.
func NewMemoryGuard(opts ...Option) Guard {
	g := &memoryGuard{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(g)
	}
	g.seen = make(map[string]int)
	if g.maxSize > 0 {
		g.ring = make([]string, g.maxSize)
	}
	return g
}

func (g *memoryGuard) Claim(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[key]; ok {
		return false
	}
	if g.maxSize <= 0 {
		g.seen[key] = -1
		g.size.Add(1)
		return true
	}

	old := g.ring[g.next]
	if slot, ok := g.seen[old]; ok && slot == g.next {
		delete(g.seen, old)
		g.size.Add(-1)
	}
	g.ring[g.next] = key
	g.seen[key] = g.next
	g.next = (g.next + 1) % g.maxSize
	g.size.Add(1)
	return true
}

func (g *memoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slot, ok := g.seen[key]
	if !ok {
		return
	}
	delete(g.seen, key)
	if slot >= 0 {
		g.ring[slot] = ""
	}
	g.size.Add(-1)
}

func (g *memoryGuard) Size() int64 {
	return g.size.Load()
}
