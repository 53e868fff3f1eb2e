// Package persona assigns every player an agent negotiation profile.
package persona

import "github.com/okian/offseason/internal/domain/rng"

// Key names a persona.
type Key string

// Persona keys.
const (
	TeamFirst        Key = "team_first"
	MarketHawk       Key = "market_hawk"
	LongTermSecurity Key = "long_term_security"
	BetOnSelf        Key = "bet_on_self"
	VeteranComfort   Key = "veteran_comfort"
)

// Persona adjusts what a player's agent expects from an offer.
type Persona struct {
	Key               Key     `json:"key"`
	Label             string  `json:"label"`
	ValueMultiplier   float64 `json:"value_multiplier"`
	GuaranteeTarget   float64 `json:"guarantee_target"`
	MinTerm           int     `json:"min_term"`
	MaxTerm           int     `json:"max_term"`
	DiscountTolerance float64 `json:"discount_tolerance"`
}

var personas = [...]Persona{
	{Key: TeamFirst, Label: "Team First", ValueMultiplier: 0.95, GuaranteeTarget: 0.35, MinTerm: 3, MaxTerm: 5, DiscountTolerance: 0.08},
	{Key: MarketHawk, Label: "Market Hawk", ValueMultiplier: 1.10, GuaranteeTarget: 0.50, MinTerm: 2, MaxTerm: 4, DiscountTolerance: 0},
	{Key: LongTermSecurity, Label: "Long Term Security", ValueMultiplier: 1.00, GuaranteeTarget: 0.60, MinTerm: 4, MaxTerm: 5, DiscountTolerance: 0.03},
	{Key: BetOnSelf, Label: "Bet On Self", ValueMultiplier: 1.03, GuaranteeTarget: 0.30, MinTerm: 1, MaxTerm: 2, DiscountTolerance: 0.02},
	{Key: VeteranComfort, Label: "Veteran Comfort", ValueMultiplier: 0.97, GuaranteeTarget: 0.40, MinTerm: 1, MaxTerm: 3, DiscountTolerance: 0.05},
}

// All returns the five personas in assignment order.
func All() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas[:])
	return out
}

// For returns the persona of playerID. The mapping is a stable hash, so every
// negotiation path sees the same persona for the same player.
func For(playerID string) Persona {
	return personas[rng.Hash32(playerID)%uint32(len(personas))]
}

// ByKey looks a persona up by key.
func ByKey(k Key) (Persona, bool) {
	for _, p := range personas {
		if p.Key == k {
			return p, true
		}
	}
	return Persona{}, false
}

// ClampTerm pulls term into the persona's preferred window.
func (p Persona) ClampTerm(term int) int {
	switch {
	case term < p.MinTerm:
		return p.MinTerm
	case term > p.MaxTerm:
		return p.MaxTerm
	}
	return term
}
