// Package preference models how long a player wants to sign for.
package preference

import (
	"fmt"

	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/rng"
)

// Terms a free agent can be offered.
const (
	MinTerm = 1
	MaxTerm = 5
)

const stretchChance = 0.35

// weights over terms 1..5.
type weights [MaxTerm]float64

var (
	baseWeights      = weights{0.15, 0.25, 0.30, 0.20, 0.10}
	veteranWeights   = weights{0.40, 0.35, 0.17, 0.06, 0.02}
	latePrimeWeights = weights{0.22, 0.32, 0.28, 0.13, 0.05}
	youngStarWeights = weights{0.04, 0.10, 0.24, 0.30, 0.32}
	risingWeights    = weights{0.08, 0.17, 0.30, 0.27, 0.18}
)

// fitByGap is keyed by |preferred - offered|; gaps of 4+ use the last entry.
var fitByGap = [...]float64{1.0, 0.85, 0.65, 0.45, 0.3}

func weightsFor(p model.Player) weights {
	switch {
	case p.Age >= 31:
		return veteranWeights
	case p.Age >= 29:
		return latePrimeWeights
	case p.Age <= 26 && p.Overall >= 85:
		return youngStarWeights
	case p.Age <= 27 && p.Overall >= 78:
		return risingWeights
	}
	return baseWeights
}

func seedKey(p model.Player) string {
	return fmt.Sprintf("%s|%s|%d|%d", p.ID, p.Position, p.Age, p.Overall)
}

// PreferredTerm draws the player's preferred contract length. The draw is
// seeded from the player's identity and attributes, so asking again returns
// the same answer.
func PreferredTerm(p model.Player) int {
	u, _ := rng.Next(rng.Seeded(seedKey(p)))
	return sample(weightsFor(p), u)
}

func sample(w weights, u float64) int {
	total := 0.0
	for _, v := range w {
		total += v
	}
	target := u * total
	acc := 0.0
	for i, v := range w {
		acc += v
		if target < acc {
			return i + 1
		}
	}
	return MaxTerm
}

// TermFit scores how well offered matches preferred.
func TermFit(preferred, offered int) float64 {
	gap := preferred - offered
	if gap < 0 {
		gap = -gap
	}
	if gap >= len(fitByGap) {
		gap = len(fitByGap) - 1
	}
	return fitByGap[gap]
}

// AllowedTerms lists the contract lengths the player will entertain, ascending.
func AllowedTerms(p model.Player) []int {
	preferred := PreferredTerm(p)
	terms := []int{1, 2, 3}
	if preferred >= 4 || p.Age <= 30 {
		terms = append(terms, 4)
	}
	if preferred == MaxTerm || (p.Age <= 27 && p.Overall >= 80 && stretchRoll(p) < stretchChance) {
		if len(terms) == 3 {
			terms = append(terms, 4)
		}
		terms = append(terms, MaxTerm)
	}
	return terms
}

// stretchRoll is the second draw of the player's seeded sequence.
func stretchRoll(p model.Player) float64 {
	draws, _ := rng.Draws(rng.Seeded(seedKey(p)), 2)
	return draws[1]
}
