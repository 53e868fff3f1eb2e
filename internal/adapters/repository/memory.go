package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/model"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*draft.Session
	contracts map[string][]model.Contract
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string]*draft.Session),
		contracts: make(map[string][]model.Contract),
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*draft.Session, error) {
	defer observe("session_get", time.Now())
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, s *draft.Session) error {
	defer observe("session_put", time.Now())
	if err := checkSession(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]*draft.Session, error) {
	defer observe("session_list", time.Now())
	m.mu.RLock()
	out := make([]*draft.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) AddContract(_ context.Context, c model.Contract) error {
	defer observe("contract_add", time.Now())
	if err := checkContract(c); err != nil {
		return err
	}
	c.Schedule = slices.Clone(c.Schedule)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[c.Team] = append(m.contracts[c.Team], c)
	return nil
}

func (m *MemoryStore) Contracts(_ context.Context, team string) ([]model.Contract, error) {
	defer observe("contract_list", time.Now())
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.contracts[team]
	out := make([]model.Contract, len(src))
	for i, c := range src {
		c.Schedule = slices.Clone(c.Schedule)
		out[i] = c
	}
	return out, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
