package offer

import "math/rand/v2"

// Decision is the outcome of applying a policy to an evaluation. A rejected
// offer is a normal result, not an error.
type Decision struct {
	Accepted   bool       `json:"accepted"`
	Policy     string     `json:"policy"`
	Draw       *float64   `json:"draw,omitempty"`
	Threshold  int        `json:"threshold,omitempty"`
	Evaluation Evaluation `json:"evaluation"`
}

// Policy turns an evaluation into accept or reject.
type Policy interface {
	Decide(e Evaluation) Decision
}

// ProbabilityDraw accepts when a uniform draw lands under the probability.
type ProbabilityDraw struct {
	// Float64 returns a value in [0, 1). Nil uses math/rand/v2.
	Float64 func() float64
}

// Decide implements Policy.
func (p ProbabilityDraw) Decide(e Evaluation) Decision {
	draw := rand.Float64 //nolint:gosec // gameplay randomness
	if p.Float64 != nil {
		draw = p.Float64
	}
	u := draw()
	return Decision{
		Accepted:   u < e.Probability,
		Policy:     "probability_draw",
		Draw:       &u,
		Evaluation: e,
	}
}

// ScoreThreshold accepts when the interest score reaches Min.
type ScoreThreshold struct {
	Min int
}

// Decide implements Policy.
func (t ScoreThreshold) Decide(e Evaluation) Decision {
	return Decision{
		Accepted:   e.Score >= t.Min,
		Policy:     "score_threshold",
		Threshold:  t.Min,
		Evaluation: e,
	}
}

// Default thresholds.
const (
	CommitScore        = 70
	RenegotiationScore = 90
)
