package orchestrator

import (
	"context"

	"github.com/rawblock/boar-agent/internal/chain"
	"github.com/rawblock/boar-agent/pkg/models"
)

// edgeBankContext is one candidate's historical-match input to the
// scorer's edge-bank component, computed from the chain's AUTOPSY
// history rather than a separate store — AUTOPSY beads are themselves
// the edge bank per spec.md's supplemented autopsy feature.
type edgeBankContext struct {
	beadCount int
	matchPct  float64
}

// loadEdgeBank counts every AUTOPSY bead on the chain and computes the
// winning fraction among those whose own PlayType matches the
// candidate's current play type, the crudest form of "similar setups
// worked before" the pack supports without a dedicated similarity
// index. beadCount is the total AUTOPSY history (cold-start gating
// looks at overall sample size per spec.md); matchPct only ever
// reflects the filtered, same-play-type subset.
func loadEdgeBank(ctx context.Context, store *chain.Store, playType models.PlayType) edgeBankContext {
	beads, err := store.QueryByType(ctx, models.BeadAutopsy, nil)
	if err != nil || len(beads) == 0 {
		return edgeBankContext{}
	}

	wins := 0
	matched := 0
	for _, b := range beads {
		ap, ok := b.Content.(models.AutopsyContent)
		if !ok || ap.PlayType != playType {
			continue
		}
		matched++
		if ap.PnLPct > 0 {
			wins++
		}
	}
	if matched == 0 {
		return edgeBankContext{beadCount: len(beads)}
	}
	return edgeBankContext{
		beadCount: len(beads),
		matchPct:  float64(wins) / float64(matched),
	}
}
