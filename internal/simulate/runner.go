package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes the complete simulation and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Named("simulate")
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting offseason simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("drafts", cfg.Drafts),
		logger.Int("offers", cfg.Offers),
		logger.Int("workers", cfg.Workers),
		logger.Int64("seed", cfg.Seed))

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	sessions, err := createDrafts(ctx, cfg, client, stats)
	if err != nil {
		return stats, err
	}

	// Rosters are read before any pick is made so concurrent runs against
	// a shared service still verify.
	teams := teamsOf(snapshotsAsResults(sessions))
	before, err := rosterCounts(ctx, client, teams)
	if err != nil {
		return stats, err
	}

	results := playDrafts(ctx, cfg, client, sessions, stats)
	submitOffers(ctx, cfg, client, stats)

	if err := verifyResults(ctx, client, results, before); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	if stats.DraftsFailed > 0 {
		return stats, fmt.Errorf("%d of %d drafts failed", stats.DraftsFailed, stats.DraftsStarted)
	}

	if cfg.OutputFile != "" {
		if err := saveResults(cfg.OutputFile, results); err != nil {
			log.Warn(ctx, "failed to save results", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func snapshotsAsResults(sessions []draft.Snapshot) []Result {
	out := make([]Result, len(sessions))
	for i, s := range sessions {
		out[i] = Result{SessionID: s.ID, Final: s}
	}
	return out
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	var stats map[string]any
	if err := client.get(ctx, "/stats", &stats); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if started, _ := stats["started"].(bool); !started {
		return fmt.Errorf("service reports not started")
	}
	return nil
}

// saveResults writes the played drafts as a JSON array.
func saveResults(filename string, results []Result) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var draftsPerSecond float64
	if stats.Duration > 0 {
		draftsPerSecond = float64(stats.DraftsCompleted) / stats.Duration.Seconds()
	}
	logger.Named("simulate").Info(ctx, "final statistics",
		logger.Int("draftsStarted", stats.DraftsStarted),
		logger.Int("draftsCompleted", stats.DraftsCompleted),
		logger.Int("draftsFailed", stats.DraftsFailed),
		logger.Int("picksMade", stats.PicksMade),
		logger.Int("tradesProposed", stats.TradesProposed),
		logger.Int("tradesAccepted", stats.TradesAccepted),
		logger.Int("offersSubmitted", stats.OffersSubmitted),
		logger.Int("offersAccepted", stats.OffersAccepted),
		logger.Int("offersFailed", stats.OffersFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("draftsPerSecond", draftsPerSecond))
}
