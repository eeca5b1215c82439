package orchestrator

import (
	"context"

	"github.com/rawblock/boar-agent/internal/chain"
	"github.com/rawblock/boar-agent/pkg/models"
)

// writeAutopsy emits an AUTOPSY bead for a fully or partially closed
// position, the supplemented feature that feeds loadEdgeBank on later
// cycles. matchedEdges names which scored components contributed
// materially to the original entry decision, for later pattern mining.
func writeAutopsy(ctx context.Context, store *chain.Store, lineage []string, pos models.Position, exit models.ExitDecision, matchedEdges []string) (models.Bead, error) {
	content := models.AutopsyContent{
		TokenMint:    pos.TokenMint,
		PlayType:     pos.PlayType,
		EntryPrice:   pos.EntryPriceUSD,
		ExitPrice:    exit.CurrentPrice,
		PnLPct:       exit.PnLPct,
		ExitReason:   string(exit.Reason),
		MatchedEdges: matchedEdges,
	}
	return store.Write(ctx, models.Bead{
		BeadType:      models.BeadAutopsy,
		TemporalClass: models.TemporalDerived,
		Lineage:       lineage,
		Content:       content,
		TokenMint:     pos.TokenMint,
	})
}
