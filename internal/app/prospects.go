package service

import (
	"fmt"

	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/position"
	"github.com/okian/offseason/internal/domain/rng"
)

// draftablePositions weights the generated pool toward positions teams
// actually draft early; specialists appear once per list.
var draftablePositions = []position.Position{
	position.QB, position.RB, position.WR, position.WR, position.TE,
	position.OT, position.OT, position.IOL, position.IOL, position.EDGE,
	position.EDGE, position.DT, position.DT, position.LB, position.CB,
	position.CB, position.S, position.S, position.K, position.P,
}

// generateProspects builds a ranked pool of n prospects. The positions are
// drawn from a generator keyed on the seed, so the same seed always yields
// the same board.
func generateProspects(seed int64, n int) []draft.Prospect {
	state := rng.Seeded(fmt.Sprintf("prospects|%d", seed))
	out := make([]draft.Prospect, n)
	for i := range out {
		var u float64
		u, state = rng.Next(state)
		out[i] = draft.Prospect{
			ID:       fmt.Sprintf("p%03d", i+1),
			Name:     fmt.Sprintf("Prospect %03d", i+1),
			Position: draftablePositions[int(u*float64(len(draftablePositions)))],
			Rank:     i + 1,
		}
	}
	return out
}
