package models

import "time"

// TierExitFlags tracks which staged take-profit tiers have already
// fired for a position, so the watchdog never double-exits a tier.
type TierExitFlags struct {
	Tier1Exited    bool `json:"tier1_exited"`
	Tier2Exited    bool `json:"tier2_exited"`
	StopLossExited bool `json:"stop_loss_exited"`
}

// Position is an open trading lot, owned exclusively by the state
// store and mutated only by the watchdog.
type Position struct {
	TokenMint string `json:"token_mint"`
	// PlayType is fixed at entry (accumulation or graduation) so the
	// eventual AUTOPSY bead can be scoped to the edge bank's matching
	// play type rather than pooled across both.
	PlayType       PlayType      `json:"play_type"`
	EntryPriceUSD  float64       `json:"entry_price_usd"`
	EntrySizeSOL   float64       `json:"entry_size_sol"`
	EntryTimestamp time.Time     `json:"entry_timestamp"`
	PeakPriceUSD   float64       `json:"peak_price_usd"`
	TierExits      TierExitFlags `json:"tier_exits"`
	EntryLiquidityUSD float64    `json:"entry_liquidity_usd"`
	// RemainingFraction is the fraction of the original size still
	// open, shrinking as partial tier exits fire.
	RemainingFraction float64 `json:"remaining_fraction"`
}

// ExitReason names why the watchdog closed (all or part of) a position.
type ExitReason string

const (
	ExitStopLoss       ExitReason = "stop_loss"
	ExitTier1TakeProfit ExitReason = "tier1_take_profit"
	ExitTier2TakeProfit ExitReason = "tier2_take_profit"
	ExitTrailingStop   ExitReason = "trailing_stop"
	ExitTimeDecay      ExitReason = "time_decay"
	ExitLiquidityDrop  ExitReason = "liquidity_drop"
)

// ExitDecision is the watchdog's recommendation for an open position.
type ExitDecision struct {
	TokenMint    string     `json:"token_mint"`
	Reason       ExitReason `json:"reason"`
	ExitFraction float64    `json:"exit_fraction"` // fraction of remaining size to close
	PnLPct       float64    `json:"pnl_pct"`
	CurrentPrice float64    `json:"current_price_usd"`
}
