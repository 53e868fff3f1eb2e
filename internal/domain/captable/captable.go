// Package captable converts contracts into year-by-year salary-cap hits.
//
// All currency values are in millions. Arithmetic runs on decimal values
// and results are rounded to cents before they leave the package.
package captable

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// SalaryCap is the league-wide cap for a single league year.
const SalaryCap = 255.4

// Rookie-scale constants.
const (
	RookieTerm       = 4
	rookieBase       = 5.0
	rookieStep       = 0.05
	rookieFloor      = 0.75
	firstRoundLength = 32
	rookieHalfGuar   = 0.5
	centsPlaces      = 2
)

// multipliers holds one front-loaded, escalating vector per term length.
// Term 6 only exists for renegotiated extensions.
var multipliers = map[int][]string{
	1: {"1.0"},
	2: {"0.8", "1.2"},
	3: {"0.5", "0.9", "1.2"},
	4: {"0.5", "0.85", "1.1", "1.3"},
	5: {"0.45", "0.8", "1.0", "1.2", "1.4"},
	6: {"0.4", "0.7", "0.9", "1.1", "1.3", "1.5"},
}

// Supported reports whether term has a cap-hit vector.
func Supported(term int) bool {
	_, ok := multipliers[term]
	return ok
}

// Schedule returns the cap hit for each contract year.
func Schedule(annualValue float64, term int) ([]float64, error) {
	vec, ok := multipliers[term]
	if !ok {
		return nil, fmt.Errorf("%w: %d years", ErrInvalidTerm, term)
	}
	if math.IsNaN(annualValue) || math.IsInf(annualValue, 0) {
		return nil, fmt.Errorf("%w: annual value %v", ErrInvalidValue, annualValue)
	}
	apy := decimal.NewFromFloat(annualValue)
	out := make([]float64, len(vec))
	for i, m := range vec {
		hit := apy.Mul(decimal.RequireFromString(m)).Round(centsPlaces)
		out[i] = hit.InexactFloat64()
	}
	return out, nil
}

// YearOne returns the first-year cap hit of a contract.
func YearOne(annualValue float64, term int) (float64, error) {
	s, err := Schedule(annualValue, term)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

// RookieContract is the slotted deal a drafted player signs.
type RookieContract struct {
	Rank          int       `json:"rank"`
	Term          int       `json:"term"`
	YearOneCapHit float64   `json:"year_one_cap_hit"`
	AnnualValue   float64   `json:"annual_value"`
	Guaranteed    float64   `json:"guaranteed"`
	Schedule      []float64 `json:"schedule"`
}

// Rookie prices the contract for a player drafted at the given rank.
// Earlier picks cost more; the year-one hit bottoms out at a floor.
func Rookie(rank int) RookieContract {
	if rank < 1 {
		rank = 1
	}
	yearOne := decimal.NewFromFloat(rookieBase).
		Sub(decimal.NewFromFloat(rookieStep).Mul(decimal.NewFromInt(int64(rank - 1))))
	if floor := decimal.NewFromFloat(rookieFloor); yearOne.LessThan(floor) {
		yearOne = floor
	}
	first := decimal.RequireFromString(multipliers[RookieTerm][0])
	apy := yearOne.Div(first).Round(centsPlaces)

	total := apy.Mul(decimal.NewFromInt(RookieTerm))
	guaranteed := total
	if rank > firstRoundLength {
		guaranteed = total.Mul(decimal.NewFromFloat(rookieHalfGuar))
	}

	schedule, _ := Schedule(apy.InexactFloat64(), RookieTerm)
	return RookieContract{
		Rank:          rank,
		Term:          RookieTerm,
		YearOneCapHit: yearOne.Round(centsPlaces).InexactFloat64(),
		AnnualValue:   apy.InexactFloat64(),
		Guaranteed:    guaranteed.Round(centsPlaces).InexactFloat64(),
		Schedule:      schedule,
	}
}

// Usage sums the cap hits that land in contract year `year` (0-based)
// across the given schedules.
func Usage(schedules [][]float64, year int) float64 {
	sum := decimal.Zero
	for _, s := range schedules {
		if year >= 0 && year < len(s) {
			sum = sum.Add(decimal.NewFromFloat(s[year]))
		}
	}
	return sum.Round(centsPlaces).InexactFloat64()
}

// Space returns how much of the salary cap remains after used.
func Space(used float64) float64 {
	return decimal.NewFromFloat(SalaryCap).Sub(decimal.NewFromFloat(used)).Round(centsPlaces).InexactFloat64()
}
