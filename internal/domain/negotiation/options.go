package negotiation

import "github.com/okian/offseason/internal/domain/offer"

type settings struct {
	seed               *int64
	float64            func() float64
	commitScore        int
	renegotiationScore int
}

func defaults() settings {
	return settings{
		commitScore:        offer.CommitScore,
		renegotiationScore: offer.RenegotiationScore,
	}
}

// Option applies a configuration option to a negotiation call.
type Option func(*settings)

// WithSeed makes the evaluation jitter and the acceptance draw reproducible.
func WithSeed(seed int64) Option {
	return func(s *settings) {
		s.seed = &seed
	}
}

// WithRand sets the uniform source used by probability-draw decisions.
func WithRand(f func() float64) Option {
	return func(s *settings) {
		s.float64 = f
	}
}

// WithCommitScore sets the score at which an offer is flagged commit-ready.
func WithCommitScore(score int) Option {
	return func(s *settings) {
		if score > 0 {
			s.commitScore = score
		}
	}
}

// WithRenegotiationScore sets the minimum score for a renegotiation to pass.
func WithRenegotiationScore(score int) Option {
	return func(s *settings) {
		if score > 0 {
			s.renegotiationScore = score
		}
	}
}
