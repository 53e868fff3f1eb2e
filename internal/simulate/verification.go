package simulate

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/pkg/logger"
)

// Verification errors.
var (
	ErrIncomplete     = errors.New("draft not completed")
	ErrUnregistered   = errors.New("pick not registered")
	ErrRosterMismatch = errors.New("roster count mismatch")
)

// teamsOf returns every team holding a pick in the given drafts.
func teamsOf(results []Result) []string {
	seen := map[string]struct{}{}
	for _, r := range results {
		for _, p := range r.Final.Picks {
			seen[p.Owner] = struct{}{}
			seen[p.OriginalOwner] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// rosterCounts reads how many contracts each team holds.
func rosterCounts(ctx context.Context, client *HTTPClient, teams []string) (map[string]int, error) {
	out := make(map[string]int, len(teams))
	for _, team := range teams {
		var roster service.Roster
		if err := client.get(ctx, "/rosters/"+team, &roster); err != nil {
			return nil, fmt.Errorf("roster %s: %w", team, err)
		}
		out[team] = len(roster.Contracts)
	}
	return out, nil
}

// verifyResults checks every draft finished with all picks registered and
// that each team gained exactly the picks it ended up owning.
func verifyResults(ctx context.Context, client *HTTPClient, results []Result, before map[string]int) error {
	log := logger.Named("simulate")
	log.Info(ctx, "verifying results", logger.Int("drafts", len(results)))

	expected := map[string]int{}
	for _, r := range results {
		if !r.Final.Finalized {
			return fmt.Errorf("%w: %s", ErrIncomplete, r.SessionID)
		}
		for _, p := range r.Final.Picks {
			if p.SelectedPlayerID == nil || !p.Registered {
				return fmt.Errorf("%w: %s slot %d", ErrUnregistered, r.SessionID, p.Overall)
			}
			expected[p.Owner]++
		}
	}

	teams := slices.Sorted(maps.Keys(expected))
	after, err := rosterCounts(ctx, client, teams)
	if err != nil {
		return err
	}
	var errs []error
	for _, team := range teams {
		gained := after[team] - before[team]
		if gained != expected[team] {
			errs = append(errs, fmt.Errorf("%w: %s gained %d contracts, owns %d picks",
				ErrRosterMismatch, team, gained, expected[team]))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info(ctx, "rosters verified", logger.Int("teams", len(teams)))
	return nil
}
