// Package service wires the decision engine to storage, the event pipeline
// and the HTTP boundary. Domain packages stay pure; this is where sessions
// are loaded, locked, advanced and written back.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/offseason/internal/adapters/mq/queue"
	workerpool "github.com/okian/offseason/internal/adapters/mq/worker"
	"github.com/okian/offseason/internal/adapters/pubsub"
	"github.com/okian/offseason/internal/adapters/repository"
	"github.com/okian/offseason/internal/domain/dedupe"
	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/offer"
	"github.com/okian/offseason/pkg/logger"
	"github.com/okian/offseason/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// Service implements the API dependencies for the offseason engine.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	guard      dedupe.Guard
	eventQueue eventqueue.Queue
	publisher  pubsub.Publisher
	workerPool *workerpool.Pool
	sessions   *keyedMutex

	workerCount        int
	queueSize          int
	dedupeSize         int
	storeDriver        string
	storeDSN           string
	natsURL            string
	natsSubject        string
	natsStream         string
	teams              []string
	rounds             int
	candidatePool      int
	prospectPool       int
	limits             draft.Limits
	commitScore        int
	renegotiationScore int
	now                func() time.Time

	offersEvaluated atomic.Int64
	offersAccepted  atomic.Int64
	eventsDropped   atomic.Int64

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:        runtime.NumCPU(),
		queueSize:          10_000,
		dedupeSize:         100_000,
		storeDriver:        repository.DriverMemory,
		natsSubject:        "offseason.events",
		natsStream:         "OFFSEASON",
		teams:              []string{"ARI", "ATL", "BAL", "BUF"},
		rounds:             draft.DefaultRounds,
		candidatePool:      draft.DefaultCandidatePool,
		prospectPool:       128,
		limits:             draft.DefaultLimits,
		commitScore:        offer.CommitScore,
		renegotiationScore: offer.RenegotiationScore,
		now:                func() time.Time { return time.Now().UTC() },
		sessions:           newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and publisher and starts the event workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.logger.Info(ctx, "starting offseason service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.storeDriver, s.storeDSN)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
	}
	if s.publisher == nil {
		pub, err := pubsub.Open(s.natsURL, s.natsSubject, s.natsStream)
		if err != nil {
			_ = s.store.Close()
			return fmt.Errorf("open publisher: %w", err)
		}
		s.publisher = pub
	}

	s.guard = dedupe.NewMemoryGuard(dedupe.WithMaxSize(s.dedupeSize))
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.publisher)
	// Workers outlive the start context; Stop drains them.
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "offseason service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("store", s.storeDriver),
		logger.String("publisher", s.publisher.Name()),
	)
	return nil
}

// Stop drains queued events, then closes the publisher and the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping offseason service...")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(s.workerPool.Shutdown(ctx))
	keep(s.publisher.Close())
	keep(s.store.Close())
	s.store, s.publisher = nil, nil

	s.started = false
	s.logger.Info(ctx, "offseason service stopped")
	return firstErr
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// emit queues an event for the publishers. Events are notifications: a
// dropped event is logged and counted, never returned as an error.
func (s *Service) emit(ctx context.Context, t model.EventType, sessionID, team string, payload map[string]any) {
	e := model.Event{
		EventID:   uuid.NewString(),
		Type:      t,
		SessionID: sessionID,
		Team:      team,
		Payload:   payload,
		TS:        s.now(),
	}
	if err := s.eventQueue.Enqueue(ctx, e); err != nil {
		s.eventsDropped.Add(1)
		s.logger.Warn(ctx, "event dropped",
			logger.String("type", string(t)),
			logger.String("session_id", sessionID),
			logger.Error(err),
		)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"storeDriver":     s.storeDriver,
		"offersEvaluated": s.offersEvaluated.Load(),
		"offersAccepted":  s.offersAccepted.Load(),
		"eventsDropped":   s.eventsDropped.Load(),
	}
	if !s.started {
		return stats
	}

	stats["queueLength"] = s.eventQueue.Len()
	stats["registeredPicks"] = s.guard.Size()
	stats["publisher"] = s.publisher.Name()
	stats["lockedSessions"] = s.sessions.len()

	if sessions, err := s.store.List(context.Background()); err == nil {
		active := 0
		for _, sess := range sessions {
			if sess.Status == draft.StatusInProgress {
				active++
			}
		}
		stats["sessions"] = len(sessions)
		stats["activeSessions"] = active
		metrics.UpdateActiveSessions(active)
	}
	metrics.UpdateQueueSize(s.eventQueue.Len())
	return stats
}
