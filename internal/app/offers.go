package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/okian/offseason/internal/domain/captable"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/negotiation"
	"github.com/okian/offseason/internal/domain/offer"
	"github.com/okian/offseason/pkg/logger"
	"github.com/okian/offseason/pkg/metrics"
)

// EvaluateOffer runs the acceptance curve on caller-supplied numbers.
func (s *Service) EvaluateOffer(ctx context.Context, in offer.Input) (offer.Evaluation, error) {
	if in.OfferedValue < 0 || in.Guaranteed < 0 || in.MarketValue < 0 ||
		math.IsNaN(in.OfferedValue) || math.IsNaN(in.Guaranteed) || math.IsNaN(in.MarketValue) {
		return offer.Evaluation{}, fmt.Errorf("%w: values must be non-negative", offer.ErrInvalidOffer)
	}
	if in.TermCeiling != 0 && in.TermCeiling != offer.StandardTermCeiling && in.TermCeiling != offer.RenegotiationTermCeiling {
		return offer.Evaluation{}, fmt.Errorf("%w: term ceiling %d", offer.ErrInvalidOffer, in.TermCeiling)
	}
	e := offer.Evaluate(in)
	s.offersEvaluated.Add(1)
	metrics.RecordOfferEvaluated("direct", e.Probability)
	if s.logger != nil {
		s.logger.Debug(ctx, "offer evaluated",
			logger.String("position", string(in.Position)),
			logger.Float64("probability", e.Probability),
			logger.Int("score", e.Score),
		)
	}
	return e, nil
}

// NegotiationRequest is an offer made to one player on one surface.
type NegotiationRequest struct {
	Surface negotiation.Surface
	// Team signs the contract when the offer is accepted. Empty previews
	// the decision without touching any roster.
	Team   string
	Player model.Player
	Offer  negotiation.Offer
	Seed   *int64
}

// NegotiationResult is the decision plus the contract it produced, if any.
// AlreadyBooked marks a retried acceptance whose contract was booked by an
// earlier call.
type NegotiationResult struct {
	negotiation.Result
	Contract      *model.Contract `json:"contract,omitempty"`
	AlreadyBooked bool            `json:"already_booked,omitempty"`
}

// bookingKey identifies one accepted negotiation. Unseeded requests share a
// key per player, team and surface.
func (r *NegotiationRequest) bookingKey() string {
	seed := "-"
	if r.Seed != nil {
		seed = strconv.FormatInt(*r.Seed, 10)
	}
	return fmt.Sprintf("offer:%s:%s:%s:%s", r.Team, r.Player.ID, r.Surface, seed)
}

// Negotiate decides an offer and, when accepted for a team, books the
// contract on that team's roster.
func (s *Service) Negotiate(ctx context.Context, req NegotiationRequest) (NegotiationResult, error) {
	if err := s.ready(); err != nil {
		return NegotiationResult{}, err
	}
	opts := []negotiation.Option{
		negotiation.WithCommitScore(s.commitScore),
		negotiation.WithRenegotiationScore(s.renegotiationScore),
	}
	if req.Seed != nil {
		opts = append(opts, negotiation.WithSeed(*req.Seed))
	}
	res, err := negotiation.Decide(req.Player, req.Offer, req.Surface, opts...)
	if err != nil {
		return NegotiationResult{}, err
	}

	surface := string(req.Surface)
	s.offersEvaluated.Add(1)
	metrics.RecordOfferEvaluated(surface, res.Evaluation.Probability)
	out := NegotiationResult{Result: res}
	if !res.Decision.Accepted {
		return out, nil
	}
	s.offersAccepted.Add(1)
	metrics.RecordOfferAccepted(surface)
	if req.Team == "" {
		return out, nil
	}

	schedule, err := captable.Schedule(req.Offer.AnnualValue, req.Offer.Term)
	if err != nil {
		return NegotiationResult{}, err
	}
	key := req.bookingKey()
	if !s.guard.Claim(ctx, key) {
		metrics.RecordRosterDuplicate()
		s.logger.Debug(ctx, "negotiated contract already booked", logger.String("key", key))
		out.AlreadyBooked = true
		return out, nil
	}
	c := model.Contract{
		PlayerID:    req.Player.ID,
		Team:        req.Team,
		Position:    req.Player.Position,
		Kind:        req.Surface.ContractKind(),
		Term:        req.Offer.Term,
		AnnualValue: req.Offer.AnnualValue,
		Guaranteed:  req.Offer.Guaranteed,
		Schedule:    schedule,
		SignedAt:    s.now(),
	}
	if err := s.store.AddContract(ctx, c); err != nil {
		s.guard.Release(ctx, key)
		return NegotiationResult{}, fmt.Errorf("book contract: %w", err)
	}
	s.emit(ctx, model.EventContractSigned, "", c.Team, map[string]any{
		"player_id":    c.PlayerID,
		"kind":         string(c.Kind),
		"term":         c.Term,
		"annual_value": c.AnnualValue,
		"guaranteed":   c.Guaranteed,
	})
	out.Contract = &c
	return out, nil
}
