// Package config defines service configuration and its loading layers.
package config

import (
	"fmt"
	"runtime"
	"slices"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory draft event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of event publisher workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the roster registration guard.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreDriver selects where sessions and rosters live: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`
	StoreDSN    string `koanf:"store_dsn"`

	// NATSURL enables the JetStream event publisher when set.
	NATSURL     string `koanf:"nats_url"`
	NATSSubject string `koanf:"nats_subject"`
	NATSStream  string `koanf:"nats_stream"`

	// DraftTeams is the default draft order.
	DraftTeams         []string `koanf:"draft_teams"`
	DraftRounds        int      `koanf:"draft_rounds"`
	DraftCandidatePool int      `koanf:"draft_candidate_pool"`
	// DraftProspectPool sizes the generated pool when a request brings none.
	DraftProspectPool int `koanf:"draft_prospect_pool"`

	// Upper bounds on what a single draft request may ask for.
	DraftMaxRounds    int `koanf:"draft_max_rounds"`
	DraftMaxTeams     int `koanf:"draft_max_teams"`
	DraftMaxProspects int `koanf:"draft_max_prospects"`

	// CommitScore flags an offer as commit-ready.
	CommitScore int `koanf:"free_agency_commit_score"`
	// RenegotiationScore is the minimum score a renegotiation needs.
	RenegotiationScore int `koanf:"renegotiation_min_score"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// DefaultTeams is a 32-team league in a fixed order.
var DefaultTeams = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE",
	"DAL", "DEN", "DET", "GB", "HOU", "IND", "JAX", "KC",
	"LAC", "LAR", "LV", "MIA", "MIN", "NE", "NO", "NYG",
	"NYJ", "PHI", "PIT", "SEA", "SF", "TB", "TEN", "WAS",
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		EventQueueSize:     10_000,
		WorkerCount:        runtime.NumCPU(),
		DedupeSize:         100_000,
		StoreDriver:        StoreMemory,
		NATSSubject:        "offseason.events",
		NATSStream:         "OFFSEASON",
		DraftTeams:         slices.Clone(DefaultTeams),
		DraftRounds:        3,
		DraftCandidatePool: 12,
		DraftProspectPool:  128,
		DraftMaxRounds:     7,
		DraftMaxTeams:      32,
		DraftMaxProspects:  2048,
		CommitScore:        70,
		RenegotiationScore: 90,
		ShutdownTimeoutMS:  10_000,
	}
}

// Validate checks that the configuration can run a service.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.EventQueueSize <= 0 || c.WorkerCount <= 0:
		return fmt.Errorf("%w: queue_size and worker_count must be positive", ErrInvalidConfig)
	case len(c.DraftTeams) < 2:
		return fmt.Errorf("%w: draft_teams needs at least two teams", ErrInvalidConfig)
	case c.DraftRounds < 1:
		return fmt.Errorf("%w: draft_rounds must be positive", ErrInvalidConfig)
	case c.DraftRounds > c.DraftMaxRounds:
		return fmt.Errorf("%w: draft_rounds %d exceeds draft_max_rounds %d", ErrInvalidConfig, c.DraftRounds, c.DraftMaxRounds)
	case len(c.DraftTeams) > c.DraftMaxTeams:
		return fmt.Errorf("%w: %d draft_teams exceed draft_max_teams %d", ErrInvalidConfig, len(c.DraftTeams), c.DraftMaxTeams)
	case c.DraftProspectPool > c.DraftMaxProspects:
		return fmt.Errorf("%w: draft_prospect_pool %d exceeds draft_max_prospects %d",
			ErrInvalidConfig, c.DraftProspectPool, c.DraftMaxProspects)
	case c.DraftProspectPool < c.DraftRounds*len(c.DraftTeams):
		return fmt.Errorf("%w: draft_prospect_pool %d is smaller than %d picks",
			ErrInvalidConfig, c.DraftProspectPool, c.DraftRounds*len(c.DraftTeams))
	case c.CommitScore < 1 || c.CommitScore > 100 || c.RenegotiationScore < 1 || c.RenegotiationScore > 100:
		return fmt.Errorf("%w: scores must be within 1..100", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn is required for %s", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	return nil
}
