package orchestrator

import (
	"context"
	"time"

	"github.com/rawblock/boar-agent/internal/chain"
	"github.com/rawblock/boar-agent/internal/feeds"
	"github.com/rawblock/boar-agent/pkg/models"
)

// watchdogOutcome is one cycle's position-monitoring results.
type watchdogOutcome struct {
	Exits        []models.ExitDecision
	AutopsyBeads []models.Bead
	QuoteErrors  []error
}

// runWatchdog fetches a fresh quote for every open position (bounded
// concurrency, spec.md §4.5 step 3), applies the ordered exit rules,
// mutates state.OpenPositions in place, and writes an AUTOPSY bead for
// every position that fully closes this cycle.
func runWatchdog(ctx context.Context, store *chain.Store, state *models.State, prices feeds.PriceSource, maxConcurrent int, now time.Time) watchdogOutcome {
	if len(state.OpenPositions) == 0 {
		return watchdogOutcome{}
	}

	mints := make([]string, 0, len(state.OpenPositions))
	for mint := range state.OpenPositions {
		mints = append(mints, mint)
	}

	quotes, errs := feeds.FetchAll(ctx, mints, maxConcurrent, func(ctx context.Context, mint string) (feeds.PriceQuote, error) {
		return prices.FetchQuote(ctx, mint)
	})

	var outcome watchdogOutcome
	for i, mint := range mints {
		if errs[i] != nil {
			outcome.QuoteErrors = append(outcome.QuoteErrors, errs[i])
			continue
		}
		pos := state.OpenPositions[mint]
		quote := quotes[i]
		decision := EvaluateExit(pos, PriceQuote{TokenMint: quote.TokenMint, PriceUSD: quote.PriceUSD, LiquidityUSD: quote.LiquidityUSD}, now)
		if decision == nil {
			continue
		}
		outcome.Exits = append(outcome.Exits, *decision)

		pos.RemainingFraction -= pos.RemainingFraction * decision.ExitFraction
		if pos.RemainingFraction <= 0.001 {
			bead, err := writeAutopsy(ctx, store, nil, *pos, *decision, nil)
			if err == nil {
				outcome.AutopsyBeads = append(outcome.AutopsyBeads, bead)
			}
			delete(state.OpenPositions, mint)
			if decision.PnLPct < 0 {
				state.ConsecutiveLosses++
			} else {
				state.ConsecutiveLosses = 0
			}
		}
	}
	return outcome
}
