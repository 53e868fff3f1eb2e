package service

import (
	"context"
	"fmt"

	"github.com/okian/offseason/internal/domain/captable"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/pkg/logger"
	"github.com/okian/offseason/pkg/metrics"
)

// capYears is how many league years a roster view projects.
const capYears = 5

// CapYear is one league year of a team's committed cap.
type CapYear struct {
	Year  int     `json:"year"`
	Used  float64 `json:"used"`
	Space float64 `json:"space"`
}

// Roster is a team's contract ledger and the cap it commits.
type Roster struct {
	Team      string           `json:"team"`
	Contracts []model.Contract `json:"contracts"`
	Cap       []CapYear        `json:"cap"`
}

// Roster returns the contracts booked to team and their cap usage.
func (s *Service) Roster(ctx context.Context, team string) (Roster, error) {
	if err := s.ready(); err != nil {
		return Roster{}, err
	}
	if team == "" {
		return Roster{}, fmt.Errorf("%w: team is required", ErrInvalidRequest)
	}
	contracts, err := s.store.Contracts(ctx, team)
	if err != nil {
		return Roster{}, err
	}
	schedules := make([][]float64, len(contracts))
	for i, c := range contracts {
		schedules[i] = c.Schedule
	}
	out := Roster{Team: team, Contracts: contracts, Cap: make([]CapYear, capYears)}
	for y := range out.Cap {
		used := captable.Usage(schedules, y)
		out.Cap[y] = CapYear{Year: y + 1, Used: used, Space: captable.Space(used)}
	}
	return out, nil
}

// register books drafted players onto their teams. Each addition is claimed
// by its session and slot first, so a pick reaches a roster at most once.
func (s *Service) register(ctx context.Context, additions []model.RosterAddition) error {
	for _, a := range additions {
		key := a.Key()
		if !s.guard.Claim(ctx, key) {
			metrics.RecordRosterDuplicate()
			s.logger.Debug(ctx, "roster addition already registered", logger.String("key", key))
			continue
		}
		c := a.Contract
		c.SignedAt = s.now()
		if err := s.store.AddContract(ctx, c); err != nil {
			s.guard.Release(ctx, key)
			return fmt.Errorf("register %s: %w", key, err)
		}
		metrics.RecordRosterAddition()
		s.emit(ctx, model.EventContractSigned, a.SessionID, a.Team, map[string]any{
			"player_id":    c.PlayerID,
			"kind":         string(c.Kind),
			"slot":         a.Slot,
			"round":        a.Round,
			"term":         c.Term,
			"annual_value": c.AnnualValue,
			"guaranteed":   c.Guaranteed,
		})
	}
	return nil
}
