package orchestrator

import (
	"time"

	"github.com/rawblock/boar-agent/pkg/models"
)

const (
	stopLossPct       = -0.20
	tier1TakeProfitPct = 1.00
	tier1ExitFraction = 0.50
	tier2TakeProfitPct = 4.00
	tier2ExitFraction = 0.30
	trailingStopDropPct = 0.20
	timeDecayMinutes  = 60.0
	timeDecayBandPct  = 0.05
	liquidityDropPct  = 0.50
)

// PriceQuote is one position's freshly fetched market data, the
// watchdog's per-candidate fetch payload.
type PriceQuote struct {
	TokenMint    string
	PriceUSD     float64
	LiquidityUSD float64
}

// pnlPct computes the position's current profit/loss fraction from its
// entry price to the quoted price.
func pnlPct(pos models.Position, priceUSD float64) float64 {
	if pos.EntryPriceUSD <= 0 {
		return 0
	}
	return (priceUSD - pos.EntryPriceUSD) / pos.EntryPriceUSD
}

// EvaluateExit applies the ordered exit rules of spec.md §4.5 step 3
// to one open position against a fresh quote, updating pos.PeakPriceUSD
// in place (the watchdog's only position mutation besides tier flags).
// It returns the first rule that fires, or nil if the position stays
// open. Only one rule fires per call; a position already past every
// tier stays open until the next rule (trailing stop, time decay,
// liquidity drop) applies on a later cycle.
func EvaluateExit(pos *models.Position, quote PriceQuote, now time.Time) *models.ExitDecision {
	if quote.PriceUSD > pos.PeakPriceUSD {
		pos.PeakPriceUSD = quote.PriceUSD
	}

	pnl := pnlPct(*pos, quote.PriceUSD)

	if !pos.TierExits.StopLossExited && pnl <= stopLossPct {
		pos.TierExits.StopLossExited = true
		return &models.ExitDecision{
			TokenMint: pos.TokenMint, Reason: models.ExitStopLoss,
			ExitFraction: 1.0, PnLPct: pnl, CurrentPrice: quote.PriceUSD,
		}
	}

	if !pos.TierExits.Tier1Exited && pnl >= tier1TakeProfitPct {
		pos.TierExits.Tier1Exited = true
		return &models.ExitDecision{
			TokenMint: pos.TokenMint, Reason: models.ExitTier1TakeProfit,
			ExitFraction: tier1ExitFraction, PnLPct: pnl, CurrentPrice: quote.PriceUSD,
		}
	}

	if !pos.TierExits.Tier2Exited && pnl >= tier2TakeProfitPct {
		pos.TierExits.Tier2Exited = true
		return &models.ExitDecision{
			TokenMint: pos.TokenMint, Reason: models.ExitTier2TakeProfit,
			ExitFraction: tier2ExitFraction, PnLPct: pnl, CurrentPrice: quote.PriceUSD,
		}
	}

	if pnl > 0 && pos.PeakPriceUSD > 0 {
		dropFromPeak := (pos.PeakPriceUSD - quote.PriceUSD) / pos.PeakPriceUSD
		if dropFromPeak >= trailingStopDropPct {
			return &models.ExitDecision{
				TokenMint: pos.TokenMint, Reason: models.ExitTrailingStop,
				ExitFraction: 1.0, PnLPct: pnl, CurrentPrice: quote.PriceUSD,
			}
		}
	}

	age := now.Sub(pos.EntryTimestamp).Minutes()
	if age >= timeDecayMinutes && absF(pnl) < timeDecayBandPct {
		return &models.ExitDecision{
			TokenMint: pos.TokenMint, Reason: models.ExitTimeDecay,
			ExitFraction: 1.0, PnLPct: pnl, CurrentPrice: quote.PriceUSD,
		}
	}

	if pos.EntryLiquidityUSD > 0 {
		dropFromEntry := (pos.EntryLiquidityUSD - quote.LiquidityUSD) / pos.EntryLiquidityUSD
		if dropFromEntry > liquidityDropPct {
			return &models.ExitDecision{
				TokenMint: pos.TokenMint, Reason: models.ExitLiquidityDrop,
				ExitFraction: 1.0, PnLPct: pnl, CurrentPrice: quote.PriceUSD,
			}
		}
	}

	return nil
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
