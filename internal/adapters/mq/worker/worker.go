// Package worker drains the event queue into a publisher.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/pkg/logger"
	"github.com/okian/offseason/pkg/metrics"
)

const (
	defaultPublishTimeout = 5 * time.Second
	defaultRetries        = 2
	retryBackoff          = 20 * time.Millisecond
)

// Event is what workers read off the queue.
type Event = model.Event

// Publisher delivers one event.
type Publisher interface {
	Publish(ctx context.Context, e model.Event) error
	Name() string
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker publishes queued events until stopped.
type Worker interface {
	// Run blocks until ctx is cancelled, the queue closes, or Shutdown.
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker reads from a Queue and writes to a Publisher.
type InMemoryWorker struct {
	queue          Queue
	publisher      Publisher
	name           string
	publishTimeout time.Duration
	retries        int
	active         *atomic.Int64

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, p Publisher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:          q,
		publisher:      p,
		name:           "worker",
		publishTimeout: defaultPublishTimeout,
		retries:        defaultRetries,
		active:         new(atomic.Int64),
		shutdown:       make(chan struct{}),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named(w.name)
	}
	return w
}

func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := w.process(ctx, e); err != nil {
				w.logger.Error(ctx, "dropping event", logger.String("event_id", e.EventID), logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker without waiting for the queue to drain.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// process publishes one event, retrying with a linear backoff.
func (w *InMemoryWorker) process(ctx context.Context, e Event) error { //nolint:gocritic // events travel by value
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var err error
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}
		pctx, cancel := context.WithTimeout(ctx, w.publishTimeout)
		err = w.publisher.Publish(pctx, e)
		cancel()
		if err == nil {
			metrics.RecordEventPublished(w.publisher.Name(), "ok")
			return nil
		}
		w.logger.Debug(ctx, "publish attempt failed",
			logger.String("event_id", e.EventID), logger.Int("attempt", attempt+1), logger.Error(err))
	}
	metrics.RecordEventPublished(w.publisher.Name(), "error")
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", "publish_error")
	return fmt.Errorf("publish %s after %d attempts: %w", e.EventID, w.retries+1, err)
}

// Pool runs several workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates count workers; count < 1 means one per CPU.
func NewPool(count int, q Queue, p Publisher, opts ...Option) *Pool {
	if count < 1 {
		count = runtime.NumCPU()
	}
	active := new(atomic.Int64)
	pool := &Pool{
		workers: make([]*InMemoryWorker, count),
		queue:   q,
		logger:  logger.Named("worker-pool"),
	}
	for i := range pool.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, p, wopts...)
		w.active = active
		pool.workers[i] = w
	}
	metrics.UpdateWorkerCount(count)
	metrics.UpdateWorkerActiveCount(0)
	return pool
}

// Size is the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and lets the workers drain it. Workers still
// busy when ctx ends are stopped and the remaining events dropped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
			continue
		case <-ctx.Done():
		}
		timedOut = true
		p.logger.Warn(ctx, "worker did not drain in time", logger.Int("worker_id", i))
		w.stop()
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
	return nil
}
