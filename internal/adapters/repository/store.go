// Package repository persists draft sessions and the roster contract ledger.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/pkg/metrics"
)

// SessionStore keeps draft sessions between calls. Stores hand out copies:
// mutating a returned session has no effect until it is Put back.
type SessionStore interface {
	// Get returns ErrSessionNotFound for unknown ids.
	Get(ctx context.Context, id string) (*draft.Session, error)
	Put(ctx context.Context, s *draft.Session) error
	// List returns every session, oldest first.
	List(ctx context.Context) ([]*draft.Session, error)
}

// RosterStore is the append-only ledger of signed contracts.
type RosterStore interface {
	AddContract(ctx context.Context, c model.Contract) error
	// Contracts returns a team's contracts in signing order.
	Contracts(ctx context.Context, team string) ([]model.Contract, error)
}

// Store is a session store and roster ledger behind one backend.
type Store interface {
	SessionStore
	RosterStore
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the store for driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, DriverPostgres:
		return OpenSQL(ctx, Dialect(driver), dsn, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

func checkSession(s *draft.Session) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: session without id", ErrInvalidRecord)
	}
	return nil
}

func checkContract(c model.Contract) error {
	if c.Team == "" || c.PlayerID == "" {
		return fmt.Errorf("%w: contract needs a team and a player", ErrInvalidRecord)
	}
	return nil
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}
