package simulate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/pkg/logger"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)

// createDrafts opens cfg.Drafts real-mode sessions, seeded Seed, Seed+1, ...
func createDrafts(ctx context.Context, cfg *Config, client *HTTPClient, stats *Stats) ([]draft.Snapshot, error) {
	out := make([]draft.Snapshot, cfg.Drafts)
	errs := make([]error, cfg.Drafts)
	forEach(ctx, cfg.Workers, cfg.Drafts, func(i int) {
		req := map[string]any{"seed": cfg.Seed + int64(i), "mode": draft.ModeReal}
		errs[i] = client.post(ctx, "/drafts", req, &out[i])
	})
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("create drafts: %w", err)
	}
	stats.DraftsStarted = len(out)
	return out, nil
}

// playDrafts runs every session to completion. The user always takes the
// best prospect left and offers one first-round swap when holding slot 1.
func playDrafts(ctx context.Context, cfg *Config, client *HTTPClient, sessions []draft.Snapshot, stats *Stats) []Result {
	log := logger.Named("simulate")
	results := make([]Result, len(sessions))
	var completed, failed, picks, trades, accepted atomic.Int64

	forEach(ctx, cfg.Workers, len(sessions), func(i int) {
		res, tradeAccepted, err := playOne(ctx, client, sessions[i])
		if err != nil {
			failed.Add(1)
			log.Warn(ctx, "draft failed", logger.String("session_id", sessions[i].ID), logger.Error(err))
			return
		}
		if tradeAccepted != nil {
			trades.Add(1)
			if *tradeAccepted {
				accepted.Add(1)
			}
		}
		results[i] = res
		completed.Add(1)
		picks.Add(int64(len(res.Selections)))
		if cfg.Verbose {
			log.Info(ctx, "draft completed",
				logger.String("session_id", res.SessionID),
				logger.Int64("seed", res.Seed),
				logger.Int("picks", len(res.Selections)))
		}
	})

	stats.DraftsCompleted = int(completed.Load())
	stats.DraftsFailed = int(failed.Load())
	stats.PicksMade = int(picks.Load())
	stats.TradesProposed = int(trades.Load())
	stats.TradesAccepted = int(accepted.Load())

	played := results[:0]
	for _, r := range results {
		if r.SessionID != "" {
			played = append(played, r)
		}
	}
	return played
}

func playOne(ctx context.Context, client *HTTPClient, snap draft.Snapshot) (Result, *bool, error) {
	path := "/drafts/" + snap.ID
	res := Result{SessionID: snap.ID, Seed: snap.Seed, UserTeam: snap.UserTeam}

	var tradeAccepted *bool
	if len(snap.Picks) > 1 && snap.Picks[0].Owner == snap.UserTeam && snap.Picks[1].Owner != snap.UserTeam {
		var out service.TradeOutcome
		tp := draft.TradeProposal{SendSlot: 1, ReceiveSlot: 2, Partner: snap.Picks[1].Owner}
		if err := client.post(ctx, path+"/trades", tp, &out); err != nil {
			return Result{}, nil, fmt.Errorf("propose trade: %w", err)
		}
		tradeAccepted = &out.Result.Accepted
		snap = out.Session
	}

	for snap.Status != draft.StatusCompleted {
		var t service.Transition
		if err := client.post(ctx, path+"/advance-to-user", nil, &t); err != nil {
			return Result{}, nil, fmt.Errorf("advance: %w", err)
		}
		res.Selections = append(res.Selections, t.Outcome.Selections...)
		snap = t.Session
		if snap.Status == draft.StatusCompleted {
			break
		}
		var picked service.Transition
		pick := map[string]string{"team": snap.UserTeam, "prospect_id": bestAvailable(snap)}
		if err := client.post(ctx, path+"/pick", pick, &picked); err != nil {
			return Result{}, nil, fmt.Errorf("pick: %w", err)
		}
		res.Selections = append(res.Selections, picked.Outcome.Selections...)
		snap = picked.Session
	}
	res.Final = snap
	return res, tradeAccepted, nil
}

func bestAvailable(snap draft.Snapshot) string {
	for _, p := range snap.Prospects {
		if !p.Drafted {
			return p.ID
		}
	}
	return ""
}

// forEach runs fn for 0..n-1 on a bounded pool of workers and stops handing
// out work once ctx is done.
func forEach(ctx context.Context, workers, n int, fn func(i int)) {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range n {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()
}
