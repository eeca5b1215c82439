package orchestrator

import (
	"testing"
	"time"

	"github.com/rawblock/boar-agent/pkg/models"
)

func basePosition(now time.Time) *models.Position {
	return &models.Position{
		TokenMint:         "mint1",
		EntryPriceUSD:     1.0,
		EntrySizeSOL:      10,
		EntryTimestamp:    now,
		PeakPriceUSD:      1.0,
		EntryLiquidityUSD: 100000,
		RemainingFraction: 1.0,
	}
}

func TestEvaluateExit_StopLossFiresAtMinus20Percent(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 0.79, LiquidityUSD: 100000}, now)
	if d == nil || d.Reason != models.ExitStopLoss {
		t.Fatalf("got %+v, want stop_loss", d)
	}
	if d.ExitFraction != 1.0 {
		t.Fatalf("got exit fraction %v, want 1.0", d.ExitFraction)
	}
	if !pos.TierExits.StopLossExited {
		t.Fatalf("expected StopLossExited flag set")
	}
}

func TestEvaluateExit_StopLossDoesNotFireAboveThreshold(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 0.81, LiquidityUSD: 100000}, now)
	if d != nil {
		t.Fatalf("got %+v, want nil", d)
	}
}

func TestEvaluateExit_Tier1TakeProfitExitsHalf(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 2.0, LiquidityUSD: 100000}, now)
	if d == nil || d.Reason != models.ExitTier1TakeProfit {
		t.Fatalf("got %+v, want tier1_take_profit", d)
	}
	if d.ExitFraction != 0.5 {
		t.Fatalf("got exit fraction %v, want 0.5", d.ExitFraction)
	}
	if !pos.TierExits.Tier1Exited {
		t.Fatalf("expected Tier1Exited flag set")
	}
}

func TestEvaluateExit_Tier1DoesNotFireTwice(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	pos.TierExits.Tier1Exited = true
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 2.0, LiquidityUSD: 100000}, now)
	if d != nil {
		t.Fatalf("got %+v, want nil (tier1 already exited)", d)
	}
}

func TestEvaluateExit_Tier1FiresBeforeTier2WhenBothEligible(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	// A position jumping straight from entry to +400% in one cycle is
	// eligible for both tiers; spec.md's ordered rule list means tier1
	// (checked first) wins this call, not tier2.
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 5.0, LiquidityUSD: 100000}, now)
	if d == nil || d.Reason != models.ExitTier1TakeProfit {
		t.Fatalf("got %+v, want tier1_take_profit", d)
	}
	if d.ExitFraction != 0.5 {
		t.Fatalf("got exit fraction %v, want 0.5", d.ExitFraction)
	}
	if !pos.TierExits.Tier1Exited {
		t.Fatalf("expected Tier1Exited flag set")
	}
}

func TestEvaluateExit_Tier2FiresOnLaterCycleOnceTier1Exited(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	pos.TierExits.Tier1Exited = true
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 5.0, LiquidityUSD: 100000}, now)
	if d == nil || d.Reason != models.ExitTier2TakeProfit {
		t.Fatalf("got %+v, want tier2_take_profit", d)
	}
	if d.ExitFraction != 0.3 {
		t.Fatalf("got exit fraction %v, want 0.3", d.ExitFraction)
	}
}

func TestEvaluateExit_TrailingStopFiresAfterPeakDrop(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	pos.TierExits.Tier1Exited = true
	pos.RemainingFraction = 0.5
	pos.PeakPriceUSD = 1.9 // below tier1 threshold of 2.0, simulating a post-tier1 peak

	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 1.5, LiquidityUSD: 100000}, now)
	if d == nil || d.Reason != models.ExitTrailingStop {
		t.Fatalf("got %+v, want trailing_stop", d)
	}
	if d.ExitFraction != 1.0 {
		t.Fatalf("got exit fraction %v, want 1.0 (closes all remaining size)", d.ExitFraction)
	}
}

func TestEvaluateExit_TimeDecayFiresWhenFlatPastWindow(t *testing.T) {
	entry := time.Now().Add(-90 * time.Minute)
	pos := basePosition(entry)
	now := entry.Add(90 * time.Minute)

	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 1.02, LiquidityUSD: 100000}, now)
	if d == nil || d.Reason != models.ExitTimeDecay {
		t.Fatalf("got %+v, want time_decay", d)
	}
}

func TestEvaluateExit_TimeDecayDoesNotFireBeforeWindow(t *testing.T) {
	entry := time.Now().Add(-30 * time.Minute)
	pos := basePosition(entry)
	now := entry.Add(30 * time.Minute)

	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 1.01, LiquidityUSD: 100000}, now)
	if d != nil {
		t.Fatalf("got %+v, want nil (still within decay window)", d)
	}
}

func TestEvaluateExit_LiquidityDropFires(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 1.0, LiquidityUSD: 40000}, now)
	if d == nil || d.Reason != models.ExitLiquidityDrop {
		t.Fatalf("got %+v, want liquidity_drop", d)
	}
}

func TestEvaluateExit_PeakPriceAlwaysTracksHighWaterMark(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 1.5, LiquidityUSD: 100000}, now)
	if pos.PeakPriceUSD != 1.5 {
		t.Fatalf("got peak %v, want 1.5", pos.PeakPriceUSD)
	}
	EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 1.2, LiquidityUSD: 100000}, now)
	if pos.PeakPriceUSD != 1.5 {
		t.Fatalf("got peak %v, want peak to stay at 1.5 after a dip", pos.PeakPriceUSD)
	}
}

func TestEvaluateExit_NoRuleFiresOnQuietPosition(t *testing.T) {
	now := time.Now()
	pos := basePosition(now)
	d := EvaluateExit(pos, PriceQuote{TokenMint: "mint1", PriceUSD: 1.05, LiquidityUSD: 95000}, now)
	if d != nil {
		t.Fatalf("got %+v, want nil", d)
	}
}
