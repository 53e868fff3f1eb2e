// Package simulate drives a running offseason service over HTTP: it plays
// many real-mode drafts concurrently, fires a burst of contract offers and
// then checks that every drafted player reached exactly one roster.
package simulate

import (
	"time"

	"github.com/okian/offseason/internal/domain/draft"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Drafts     int           // Number of real-mode drafts to play
	Offers     int           // Number of contract offers to submit
	Workers    int           // Number of concurrent workers
	Seed       int64         // Seed of the first draft; draft i uses Seed+i
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for the played drafts
	Verbose    bool          // Log every finished draft
}

// Result is one played draft.
type Result struct {
	SessionID  string            `json:"session_id"`
	Seed       int64             `json:"seed"`
	UserTeam   string            `json:"user_team"`
	Selections []draft.Selection `json:"selections"`
	Final      draft.Snapshot    `json:"-"`
}

// Stats holds run statistics.
type Stats struct {
	DraftsStarted   int
	DraftsCompleted int
	DraftsFailed    int
	PicksMade       int
	TradesProposed  int
	TradesAccepted  int
	OffersSubmitted int
	OffersAccepted  int
	OffersFailed    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
