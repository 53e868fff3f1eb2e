// Package market models what the league pays a position: per-position
// ceilings and a coarse rating-to-demand curve.
package market

import (
	"math"

	"github.com/okian/offseason/internal/domain/position"
)

// GlobalCeiling caps any offered annual value regardless of position.
const GlobalCeiling = 60.0

// Demand curve constants.
const (
	defaultCeiling = 20.0
	floorValue     = 1.0
)

var ceilings = map[position.Position]float64{
	position.QB:   60,
	position.WR:   35,
	position.EDGE: 35,
	position.OT:   30,
	position.DT:   30,
	position.CB:   25,
	position.IOL:  22,
	position.TE:   20,
	position.LB:   20,
	position.S:    18,
	position.RB:   15,
	position.K:    6,
	position.P:    5,
	position.LS:   2,
}

// tier is one step of the demand curve.
type tier struct {
	minRating int
	share     float64
}

// tiers are ordered from the highest rating down.
// The 70-74 band is 32% of the ceiling; older notes quote 320% for it.
var tiers = []tier{
	{minRating: 90, share: 0.95},
	{minRating: 85, share: 0.80},
	{minRating: 80, share: 0.70},
	{minRating: 75, share: 0.40},
	{minRating: 70, share: 0.32},
}

// CapForPosition returns the annual-value ceiling for p. Unknown positions
// get a mid-tier ceiling.
func CapForPosition(p position.Position) float64 {
	if c, ok := ceilings[p]; ok {
		return c
	}
	return defaultCeiling
}

// CapForLabel normalizes label and returns its ceiling.
func CapForLabel(label string) float64 {
	return CapForPosition(position.Normalize(label))
}

// ExpectedAnnualValue returns the market-consensus annual value for a player
// of the given position and overall rating, rounded to one decimal. Rated
// tiers are a plain share of the ceiling; the flat floor only prices players
// below the lowest tier.
func ExpectedAnnualValue(p position.Position, overall int) float64 {
	ceiling := CapForPosition(p)
	for _, t := range tiers {
		if overall >= t.minRating {
			return round1(ceiling * t.share)
		}
	}
	return floorValue
}

// EffectiveCeiling is the most any offer to p can count for.
func EffectiveCeiling(p position.Position) float64 {
	return math.Min(CapForPosition(p), GlobalCeiling)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
