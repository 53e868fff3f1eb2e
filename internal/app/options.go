package service

import (
	"time"

	"github.com/okian/offseason/internal/adapters/pubsub"
	"github.com/okian/offseason/internal/adapters/repository"
	"github.com/okian/offseason/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of event publisher workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the roster registration guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStoreDriver selects the session and roster backend opened on Start.
func WithStoreDriver(driver, dsn string) Option {
	return func(s *Service) {
		if driver != "" {
			s.storeDriver = driver
		}
		s.storeDSN = dsn
	}
}

// WithStore uses an already opened store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNATS publishes events to JetStream. An empty url keeps events in
// process; pubsub.EmbeddedNATS starts a local server.
func WithNATS(url, subject, stream string) Option {
	return func(s *Service) {
		s.natsURL = url
		if subject != "" {
			s.natsSubject = subject
		}
		if stream != "" {
			s.natsStream = stream
		}
	}
}

// WithPublisher uses an existing publisher instead of opening one.
func WithPublisher(p pubsub.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithDraftDefaults sets what a draft request falls back to.
func WithDraftDefaults(teams []string, rounds, candidatePool, prospectPool int) Option {
	return func(s *Service) {
		if len(teams) > 0 {
			s.teams = append([]string(nil), teams...)
		}
		if rounds > 0 {
			s.rounds = rounds
		}
		if candidatePool > 0 {
			s.candidatePool = candidatePool
		}
		if prospectPool > 0 {
			s.prospectPool = prospectPool
		}
	}
}

// WithDraftLimits bounds rounds, teams and prospect boards a request may ask
// for. Non-positive values keep the defaults.
func WithDraftLimits(rounds, teams, prospects int) Option {
	return func(s *Service) {
		if rounds > 0 {
			s.limits.Rounds = rounds
		}
		if teams > 0 {
			s.limits.Teams = teams
		}
		if prospects > 0 {
			s.limits.Prospects = prospects
		}
	}
}

// WithScoreThresholds sets the commit-ready and renegotiation scores.
func WithScoreThresholds(commit, renegotiation int) Option {
	return func(s *Service) {
		if commit > 0 {
			s.commitScore = commit
		}
		if renegotiation > 0 {
			s.renegotiationScore = renegotiation
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
