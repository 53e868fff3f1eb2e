package simulate

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"

	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/internal/domain/market"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/negotiation"
	"github.com/okian/offseason/internal/domain/position"
	"github.com/okian/offseason/pkg/logger"
)

var surfaces = []negotiation.Surface{negotiation.FreeAgency, negotiation.ReSign, negotiation.Renegotiation}

// offerRequest is one generated offer, sent as a preview without a team.
type offerRequest struct {
	surface negotiation.Surface
	Player  model.Player      `json:"player"`
	Offer   negotiation.Offer `json:"offer"`
	Seed    int64             `json:"seed"`
}

// generateOffers builds n offers around each player's market value. The
// same seed always yields the same offers.
func generateOffers(seed int64, n int) []offerRequest {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(n))) //nolint:gosec // reproducible test data
	positions := position.All
	out := make([]offerRequest, n)
	for i := range out {
		p := model.Player{
			ID:       fmt.Sprintf("sim-%05d", i),
			Position: positions[r.IntN(len(positions))],
			Age:      22 + r.IntN(13),
			Overall:  60 + r.IntN(36),
		}
		s := surfaces[i%len(surfaces)]
		term := 1 + r.IntN(s.TermCeiling())
		annual := market.ExpectedAnnualValue(p.Position, p.Overall) * (0.8 + 0.4*r.Float64())
		annual = math.Round(annual*10) / 10
		out[i] = offerRequest{
			surface: s,
			Player:  p,
			Offer: negotiation.Offer{
				Term:        term,
				AnnualValue: annual,
				Guaranteed:  math.Round(annual*float64(term)*0.7*r.Float64()*10) / 10,
			},
			Seed: seed + int64(i),
		}
	}
	return out
}

func submitOffers(ctx context.Context, cfg *Config, client *HTTPClient, stats *Stats) {
	if cfg.Offers <= 0 {
		return
	}
	log := logger.Named("simulate")
	offers := generateOffers(cfg.Seed, cfg.Offers)
	var submitted, accepted, failed atomic.Int64

	forEach(ctx, cfg.Workers, len(offers), func(i int) {
		o := offers[i]
		var res service.NegotiationResult
		submitted.Add(1)
		if err := client.post(ctx, "/offers/"+string(o.surface), o, &res); err != nil {
			failed.Add(1)
			if cfg.Verbose {
				log.Warn(ctx, "offer failed", logger.String("player_id", o.Player.ID), logger.Error(err))
			}
			return
		}
		if res.Decision.Accepted {
			accepted.Add(1)
		}
	})

	stats.OffersSubmitted = int(submitted.Load())
	stats.OffersAccepted = int(accepted.Load())
	stats.OffersFailed = int(failed.Load())
	log.Info(ctx, "offers submitted",
		logger.Int("submitted", stats.OffersSubmitted),
		logger.Int("accepted", stats.OffersAccepted),
		logger.Int("failed", stats.OffersFailed))
}
