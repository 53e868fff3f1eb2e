package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/pkg/logger"
	"github.com/okian/offseason/pkg/metrics"
)

// DraftRequest describes a new draft. Zero values fall back to the service
// defaults: a nil seed picks one at random and an empty user team takes the
// first slot.
type DraftRequest struct {
	Seed          *int64
	Mode          draft.Mode
	UserTeam      string
	Teams         []string
	Rounds        int
	CandidatePool int
	Prospects     []draft.Prospect
}

// Transition is what a session call did and where it left the session.
type Transition struct {
	Outcome draft.Outcome  `json:"outcome"`
	Session draft.Snapshot `json:"session"`
}

// TradeOutcome is a proposed trade's result and the session after it.
type TradeOutcome struct {
	Result  draft.TradeResult `json:"result"`
	Session draft.Snapshot    `json:"session"`
}

// CreateDraft starts and stores a new session.
func (s *Service) CreateDraft(ctx context.Context, req DraftRequest) (draft.Snapshot, error) {
	if err := s.ready(); err != nil {
		return draft.Snapshot{}, err
	}
	seed := rand.Int64() //nolint:gosec // gameplay seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	mode := req.Mode
	if mode == "" {
		mode = draft.ModeMock
	}
	teams := req.Teams
	if len(teams) == 0 {
		teams = s.teams
	}
	userTeam := req.UserTeam
	if userTeam == "" {
		userTeam = teams[0]
	}
	rounds := req.Rounds
	if rounds <= 0 {
		rounds = s.rounds
	}
	pool := req.CandidatePool
	if pool <= 0 {
		pool = s.candidatePool
	}
	if err := s.limits.Check(len(teams), rounds, len(req.Prospects), pool); err != nil {
		return draft.Snapshot{}, err
	}
	prospects := req.Prospects
	if len(prospects) == 0 {
		prospects = generateProspects(seed, max(s.prospectPool, rounds*len(teams)))
	}

	sess, err := draft.NewSession(draft.Config{
		ID:            uuid.NewString(),
		Seed:          seed,
		Mode:          mode,
		UserTeam:      userTeam,
		Teams:         teams,
		Rounds:        rounds,
		CandidatePool: pool,
		Prospects:     prospects,
		Now:           s.now(),
		Limits:        s.limits,
	})
	if err != nil {
		return draft.Snapshot{}, err
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return draft.Snapshot{}, fmt.Errorf("store session: %w", err)
	}

	metrics.RecordSessionCreated(string(mode))
	s.emit(ctx, model.EventSessionCreated, sess.ID, sess.UserTeam, map[string]any{
		"seed":  sess.Seed,
		"mode":  string(sess.Mode),
		"picks": len(sess.Picks),
	})
	s.logger.Info(ctx, "draft session created",
		logger.String("session_id", sess.ID),
		logger.Int64("seed", seed),
		logger.String("mode", string(mode)),
		logger.String("user_team", sess.UserTeam),
	)
	return sess.Snapshot(), nil
}

// Draft returns one session.
func (s *Service) Draft(ctx context.Context, id string) (draft.Snapshot, error) {
	if err := s.ready(); err != nil {
		return draft.Snapshot{}, err
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return draft.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Drafts returns every session, oldest first.
func (s *Service) Drafts(ctx context.Context) ([]draft.Snapshot, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]draft.Snapshot, len(sessions))
	for i, sess := range sessions {
		out[i] = sess.Snapshot()
	}
	return out, nil
}

// SelectPlayer makes the user's pick.
func (s *Service) SelectPlayer(ctx context.Context, id, team, prospectID string) (Transition, error) {
	return s.transition(ctx, id, func(sess *draft.Session) (draft.Outcome, error) {
		return sess.SelectPlayer(team, prospectID)
	})
}

// Advance makes one CPU pick.
func (s *Service) Advance(ctx context.Context, id string) (Transition, error) {
	return s.transition(ctx, id, (*draft.Session).Advance)
}

// AdvanceToUser runs CPU picks until the user is on the clock.
func (s *Service) AdvanceToUser(ctx context.Context, id string) (Transition, error) {
	return s.transition(ctx, id, (*draft.Session).AdvanceToUser)
}

// Pause blocks picks on a session.
func (s *Service) Pause(ctx context.Context, id string) (draft.Snapshot, error) {
	t, err := s.transition(ctx, id, func(sess *draft.Session) (draft.Outcome, error) {
		return draft.Outcome{}, sess.Pause()
	})
	if err == nil {
		s.emit(ctx, model.EventSessionPaused, id, t.Session.UserTeam, nil)
	}
	return t.Session, err
}

// Resume unblocks a paused session.
func (s *Service) Resume(ctx context.Context, id string) (draft.Snapshot, error) {
	t, err := s.transition(ctx, id, func(sess *draft.Session) (draft.Outcome, error) {
		return draft.Outcome{}, sess.Resume()
	})
	if err == nil {
		s.emit(ctx, model.EventSessionResumed, id, t.Session.UserTeam, nil)
	}
	return t.Session, err
}

// QuoteTrade prices a trade without changing the session.
func (s *Service) QuoteTrade(ctx context.Context, id string, tp draft.TradeProposal) (draft.TradeQuote, error) {
	if err := s.ready(); err != nil {
		return draft.TradeQuote{}, err
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return draft.TradeQuote{}, err
	}
	return sess.QuoteTrade(tp)
}

// ProposeTrade asks the partner and applies the trade when it accepts.
func (s *Service) ProposeTrade(ctx context.Context, id string, tp draft.TradeProposal) (TradeOutcome, error) {
	var res draft.TradeResult
	t, err := s.transition(ctx, id, func(sess *draft.Session) (draft.Outcome, error) {
		var err error
		res, err = sess.ProposeTrade(tp)
		return draft.Outcome{}, err
	})
	if err != nil {
		return TradeOutcome{}, err
	}

	kind, result := model.EventTradeRejected, "rejected"
	if res.Accepted {
		kind, result = model.EventTradeAccepted, "accepted"
	}
	metrics.RecordTrade(result)
	s.emit(ctx, kind, id, t.Session.UserTeam, map[string]any{
		"send_slot":    tp.SendSlot,
		"receive_slot": tp.ReceiveSlot,
		"partner":      tp.Partner,
		"probability":  res.Quote.Probability,
	})
	return TradeOutcome{Result: res, Session: t.Session}, nil
}

// transition serializes fn against one session: load, apply, book roster
// additions, store, then publish what happened. A failed fn leaves the
// stored session untouched.
func (s *Service) transition(ctx context.Context, id string, fn func(*draft.Session) (draft.Outcome, error)) (Transition, error) {
	if err := s.ready(); err != nil {
		return Transition{}, err
	}
	unlock := s.sessions.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return Transition{}, err
	}
	out, err := fn(sess)
	if err != nil {
		return Transition{}, err
	}
	// Contracts land before the session is written: a retry after a failed
	// Put hits the registration guard instead of booking twice.
	if err := s.register(ctx, out.Additions); err != nil {
		return Transition{}, err
	}
	sess.UpdatedAt = s.now()
	if err := s.store.Put(ctx, sess); err != nil {
		return Transition{}, fmt.Errorf("store session: %w", err)
	}

	for _, sel := range out.Selections {
		kind := "cpu"
		if sel.ByUser {
			kind = "user"
		}
		metrics.RecordPick(kind)
		s.emit(ctx, model.EventPickMade, sess.ID, sel.Team, map[string]any{
			"slot":        sel.Slot,
			"round":       sel.Round,
			"prospect_id": sel.ProspectID,
			"position":    string(sel.Position),
			"rank":        sel.Rank,
			"by_user":     sel.ByUser,
		})
	}
	if out.Completed {
		metrics.RecordSessionCompleted()
		s.emit(ctx, model.EventSessionCompleted, sess.ID, sess.UserTeam, map[string]any{
			"picks": len(sess.Picks),
		})
	}
	return Transition{Outcome: out, Session: sess.Snapshot()}, nil
}
