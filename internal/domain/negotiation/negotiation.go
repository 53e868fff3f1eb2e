// Package negotiation combines a player's market value, agent persona and
// term preference into an offer evaluation, then applies the decision policy
// of the surface the offer was made on.
package negotiation

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/offseason/internal/domain/market"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/offer"
	"github.com/okian/offseason/internal/domain/persona"
	"github.com/okian/offseason/internal/domain/preference"
	"github.com/okian/offseason/internal/domain/rng"
)

// Surface is where an offer is made.
type Surface string

// Surfaces.
const (
	FreeAgency    Surface = "free_agency"
	ReSign        Surface = "re_sign"
	Renegotiation Surface = "renegotiation"
)

const loyaltyDiscount = 0.03

// ParseSurface accepts the canonical names and their hyphenated spellings.
func ParseSurface(s string) (Surface, error) {
	v := Surface(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSurface, s)
	}
	return v, nil
}

// Valid reports whether s is a known surface.
func (s Surface) Valid() bool {
	switch s {
	case FreeAgency, ReSign, Renegotiation:
		return true
	}
	return false
}

// TermCeiling is the longest term the surface accepts.
func (s Surface) TermCeiling() int {
	if s == Renegotiation {
		return offer.RenegotiationTermCeiling
	}
	return offer.StandardTermCeiling
}

// ContractKind maps the surface to the kind recorded on a signed contract.
func (s Surface) ContractKind() model.ContractKind {
	switch s {
	case ReSign:
		return model.KindReSign
	case Renegotiation:
		return model.KindRenegotiation
	}
	return model.KindFreeAgent
}

// Offer is a proposed contract in millions.
type Offer struct {
	Term        int     `json:"term"`
	AnnualValue float64 `json:"annual_value"`
	Guaranteed  float64 `json:"guaranteed"`
}

// Assessment is everything known about an offer before a decision is taken.
type Assessment struct {
	Surface         Surface          `json:"surface"`
	Player          model.Player     `json:"player"`
	Offer           Offer            `json:"offer"`
	Persona         persona.Persona  `json:"persona"`
	PreferredTerm   int              `json:"preferred_term"`
	AllowedTerms    []int            `json:"allowed_terms"`
	MarketValue     float64          `json:"market_value"`
	TermFit         float64          `json:"term_fit"`
	GuaranteeFactor float64          `json:"guarantee_factor"`
	CommitReady     bool             `json:"commit_ready"`
	Evaluation      offer.Evaluation `json:"evaluation"`
}

// Result is an assessment plus the decision taken on it.
type Result struct {
	Assessment
	Decision offer.Decision `json:"decision"`
}

// MarketValue is what the player's camp considers fair on a surface.
func MarketValue(p model.Player, pr persona.Persona, s Surface) float64 {
	v := market.ExpectedAnnualValue(p.Position, p.Overall) * pr.ValueMultiplier * (1 - pr.DiscountTolerance)
	if s == ReSign {
		v *= 1 - loyaltyDiscount
	}
	return v
}

// Assess evaluates an offer without deciding it.
func Assess(p model.Player, o Offer, s Surface, opts ...Option) (Assessment, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	return assess(p, o, s, cfg)
}

func assess(p model.Player, o Offer, s Surface, cfg settings) (Assessment, error) {
	if !s.Valid() {
		return Assessment{}, fmt.Errorf("%w: %q", ErrUnknownSurface, s)
	}
	if p.ID == "" {
		return Assessment{}, fmt.Errorf("%w: missing id", ErrInvalidPlayer)
	}
	if err := offer.Validate(o.Term, o.AnnualValue, o.Guaranteed, s.TermCeiling()); err != nil {
		return Assessment{}, err
	}

	pr := persona.For(p.ID)
	preferred := preference.PreferredTerm(p)
	marketValue := MarketValue(p, pr, s)
	rating := p.Overall

	e := offer.Evaluate(offer.Input{
		MarketValue:  marketValue,
		OfferedValue: o.AnnualValue,
		Term:         o.Term,
		Guaranteed:   o.Guaranteed,
		Position:     p.Position,
		Rating:       &rating,
		TermCeiling:  s.TermCeiling(),
		Seed:         cfg.seed,
	})

	// Renegotiations extend a deal the player already holds; term fit only
	// shapes new contracts.
	fit := 1.0
	if s != Renegotiation {
		fit = preference.TermFit(pr.ClampTerm(preferred), e.EffectiveTerm)
	}
	guarantee := 1 - math.Max(0, pr.GuaranteeTarget-e.GuaranteedShare)
	e = e.Rescale(fit * guarantee)

	return Assessment{
		Surface:         s,
		Player:          p,
		Offer:           o,
		Persona:         pr,
		PreferredTerm:   preferred,
		AllowedTerms:    preference.AllowedTerms(p),
		MarketValue:     marketValue,
		TermFit:         fit,
		GuaranteeFactor: guarantee,
		CommitReady:     e.Score >= cfg.commitScore,
		Evaluation:      e,
	}, nil
}

// Decide assesses the offer and applies the surface's policy. Free agency and
// re-signing draw against the probability; renegotiation needs a minimum score.
// A rejection is a normal result.
func Decide(p model.Player, o Offer, s Surface, opts ...Option) (Result, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	a, err := assess(p, o, s, cfg)
	if err != nil {
		return Result{}, err
	}
	return Result{Assessment: a, Decision: policyFor(s, cfg).Decide(a.Evaluation)}, nil
}

func policyFor(s Surface, cfg settings) offer.Policy {
	if s == Renegotiation {
		return offer.ScoreThreshold{Min: cfg.renegotiationScore}
	}
	draw := cfg.float64
	if draw == nil && cfg.seed != nil {
		u, _ := rng.Next(rng.Derive(*cfg.seed))
		draw = func() float64 { return u }
	}
	return offer.ProbabilityDraw{Float64: draw}
}
