// Package offer defines the acceptance curve shared by every contract
// decision: free agency, re-signing and renegotiation.
package offer

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/offseason/internal/domain/market"
	"github.com/okian/offseason/internal/domain/position"
	"github.com/okian/offseason/internal/domain/preference"
)

// Probability bounds and tone thresholds.
const (
	MinProbability = 0.05
	MaxProbability = 0.9

	negativeBelow = 55
	neutralBelow  = 75
)

// Term ceilings callers may request.
const (
	StandardTermCeiling      = 5
	RenegotiationTermCeiling = 6
)

const (
	ratioFloor         = 0.85
	ratioCeil          = 1.15
	guaranteeFloor     = 0.25
	guaranteeSlope     = 0.2
	guaranteeBonusCap  = 0.15
	synergyShare       = 0.55
	synergySlope       = 0.1
	synergyCap         = 0.08
	overMarketSlope    = 0.667
	overMarketBonusCap = 0.10
	jitterSpan         = 61
	jitterCenter       = 30
	jitterScale        = 1000.0
	maxJitter          = 0.03
	scorePercentage    = 100
)

// termBonus is indexed by term length. Standard terms barely move the
// curve; only the six-year renegotiation extension carries real weight.
var termBonus = [...]float64{0, 0, 0.0002, 0.0005, 0.0008, 0.001, 0.20}

// Tone summarizes how the player's camp feels about an offer.
type Tone string

// Tones.
const (
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
)

// Input is everything the acceptance curve looks at.
type Input struct {
	MarketValue  float64           `json:"market_value"`
	OfferedValue float64           `json:"offered_value"`
	Term         int               `json:"term"`
	Guaranteed   float64           `json:"guaranteed"`
	Position     position.Position `json:"position"`
	Rating       *int              `json:"rating,omitempty"`
	TermCeiling  int               `json:"term_ceiling,omitempty"`
	Seed         *int64            `json:"seed,omitempty"`
}

// Evaluation is the outcome of the acceptance curve.
type Evaluation struct {
	Probability     float64 `json:"probability"`
	Score           int     `json:"score"`
	Tone            Tone    `json:"tone"`
	EffectiveTerm   int     `json:"effective_term"`
	EffectiveValue  float64 `json:"effective_value"`
	MarketValue     float64 `json:"market_value"`
	GuaranteedShare float64 `json:"guaranteed_share"`
	Ratio           float64 `json:"ratio"`
	YearsFit        float64 `json:"years_fit"`
	Jitter          float64 `json:"jitter"`
}

// Validate checks the offer shape for a surface with the given term ceiling.
func Validate(term int, annualValue, guaranteed float64, ceiling int) error {
	if ceiling != RenegotiationTermCeiling {
		ceiling = StandardTermCeiling
	}
	switch {
	case term < 1 || term > ceiling:
		return fmt.Errorf("%w: term %d outside [1,%d]", ErrInvalidOffer, term, ceiling)
	case annualValue < 0 || !finite(annualValue):
		return fmt.Errorf("%w: annual value must be a non-negative number", ErrInvalidOffer)
	case guaranteed < 0 || !finite(guaranteed):
		return fmt.Errorf("%w: guarantee must be a non-negative number", ErrInvalidOffer)
	case guaranteed > annualValue*float64(term)+1e-9:
		return fmt.Errorf("%w: guarantee exceeds total value", ErrInvalidOffer)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Evaluate runs the acceptance curve. It has no side effects; with a seed
// the result is exactly reproducible.
func Evaluate(in Input) Evaluation {
	ceiling := in.TermCeiling
	if ceiling != RenegotiationTermCeiling {
		ceiling = StandardTermCeiling
	}
	term := clampInt(in.Term, 1, ceiling)

	capValue := market.EffectiveCeiling(in.Position)
	offered := math.Max(0, in.OfferedValue)
	effective := math.Min(offered, capValue)

	marketValue := in.MarketValue
	if marketValue <= 0 {
		marketValue = market.CapForPosition(in.Position)
	}
	ratio := effective / marketValue

	share := 0.0
	if total := offered * float64(term); total > 0 {
		share = clamp(in.Guaranteed/total, 0, 1)
	}

	jitter := Jitter(in.Seed)
	p := baseProbability(ratio) +
		termBonus[term] +
		guaranteeBonus(share) +
		synergyBonus(term, share) +
		jitter
	p = clamp(p, MinProbability, MaxProbability)

	score := ScoreOf(p)
	return Evaluation{
		Probability:     p,
		Score:           score,
		Tone:            ToneOf(score),
		EffectiveTerm:   term,
		EffectiveValue:  effective,
		MarketValue:     marketValue,
		GuaranteedShare: share,
		Ratio:           ratio,
		YearsFit:        yearsFit(in.Rating, term),
		Jitter:          jitter,
	}
}

// yearsFit reports how the term suits a player of the given rating. It is
// informational and does not move the probability.
func yearsFit(rating *int, term int) float64 {
	if rating == nil {
		return 1
	}
	preferred := 2
	switch {
	case *rating >= 85:
		preferred = 4
	case *rating >= 75:
		preferred = 3
	}
	return preference.TermFit(preferred, term)
}

// baseProbability shapes the value ratio: being at or above market matters
// far more than being slightly under it.
func baseProbability(ratio float64) float64 {
	r := clamp(ratio, ratioFloor, ratioCeil)
	switch {
	case r < 0.90:
		return 0.35 + (r-0.85)*1.4
	case r < 0.95:
		return 0.42 + (r-0.90)*4.0
	case r < 1.0:
		return 0.62 + (r-0.95)*2.6
	}
	return 0.75 + math.Min(overMarketBonusCap, (r-1)*overMarketSlope)
}

func guaranteeBonus(share float64) float64 {
	return clamp(guaranteeSlope*(share-guaranteeFloor), 0, guaranteeBonusCap)
}

func synergyBonus(term int, share float64) float64 {
	if term <= 2 || share < synergyShare {
		return 0
	}
	return math.Min(synergyCap, synergySlope*float64(term-2)*(share-synergyShare))
}

// Jitter is the small noise term. A seed maps to ((seed mod 61) - 30)/1000;
// without one a fresh draw is taken.
func Jitter(seed *int64) float64 {
	if seed == nil {
		return (rand.Float64()*2 - 1) * maxJitter //nolint:gosec // noise, not security
	}
	m := *seed % jitterSpan
	if m < 0 {
		m += jitterSpan
	}
	return float64(m-jitterCenter) / jitterScale
}

// ScoreOf converts a probability into the 0-100 interest score.
func ScoreOf(p float64) int {
	return int(math.Round(p * scorePercentage))
}

// ToneOf classifies an interest score.
func ToneOf(score int) Tone {
	switch {
	case score < negativeBelow:
		return ToneNegative
	case score < neutralBelow:
		return ToneNeutral
	}
	return TonePositive
}

// Rescale multiplies an evaluation's probability by factor, re-clamps and
// recomputes the derived fields.
func (e Evaluation) Rescale(factor float64) Evaluation {
	e.Probability = clamp(e.Probability*factor, MinProbability, MaxProbability)
	e.Score = ScoreOf(e.Probability)
	e.Tone = ToneOf(e.Score)
	return e
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
