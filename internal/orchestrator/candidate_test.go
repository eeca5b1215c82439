package orchestrator

import (
	"testing"
	"time"

	"github.com/rawblock/boar-agent/internal/feeds"
	"github.com/rawblock/boar-agent/pkg/models"
)

func TestCandidateMints_UnionsAllSourcesWithoutDuplicates(t *testing.T) {
	snapshot := feeds.OracleSnapshot{
		NansenSignals: map[string]feeds.NansenSignal{"mintA": {}},
		MobulaSignals: map[string]feeds.MobulaSignal{"mintA": {}, "mintB": {}},
		PulseSignals:  map[string]feeds.PulseSignal{"mintC": {}},
	}
	narrative := []feeds.NarrativeCandidate{{TokenMint: "mintB"}, {TokenMint: "mintD"}}

	got := candidateMints(snapshot, narrative)
	seen := map[string]bool{}
	for _, m := range got {
		if seen[m] {
			t.Fatalf("mint %s appeared more than once in %v", m, got)
		}
		seen[m] = true
	}
	for _, want := range []string{"mintA", "mintB", "mintC", "mintD"} {
		if !seen[want] {
			t.Fatalf("expected %s in %v", want, got)
		}
	}
	if len(got) != 4 {
		t.Fatalf("got %d mints, want 4", len(got))
	}
}

func TestCandidateMints_EmptySourcesYieldNoMints(t *testing.T) {
	got := candidateMints(feeds.OracleSnapshot{}, nil)
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestBuildBaseSignalInput_FillsFromAllThreeOracleMaps(t *testing.T) {
	now := time.Now()
	snapshot := feeds.OracleSnapshot{
		NansenSignals: map[string]feeds.NansenSignal{"mint1": {WhaleCount: 5, DumperWhaleCount: 1, DCACount: 2}},
		MobulaSignals: map[string]feeds.MobulaSignal{"mint1": {ExchangeNetInflowUSD: 1000, SmartMoneyBuyVolumeUSD: 500}},
		PulseSignals:  map[string]feeds.PulseSignal{"mint1": {OrganicRatio: 0.8, Top3TradeShareOf1h: 0.2}},
	}
	state := models.State{DailyGraduationCount: 2, PotSOL: 10}

	in := buildBaseSignalInput("mint1", snapshot, nil, 1.0, state, now)

	if in.WhaleCount != 5 || in.DumperWhaleCount != 1 || in.DCACount != 2 {
		t.Fatalf("whale fields not filled: %+v", in)
	}
	if in.ExchangeNetInflowUSD != 1000 || in.SmartMoneyBuyVolumeUSD != 500 {
		t.Fatalf("flow fields not filled: %+v", in)
	}
	if in.Pulse.OrganicRatio != 0.8 || in.Top3TradeShareOf1h != 0.2 {
		t.Fatalf("pulse fields not filled: %+v", in)
	}
	if in.DailyGraduationCount != 2 || in.PotSOL != 10 {
		t.Fatalf("state fields not carried through: %+v", in)
	}
	if in.VolatilityFactor != 1.0 {
		t.Fatalf("got volatility factor %v, want 1.0 default", in.VolatilityFactor)
	}
}

func TestBuildBaseSignalInput_NarrativeAgePrefersCandidateOverPhaseTiming(t *testing.T) {
	now := time.Now()
	firstSeen := now.Add(-30 * time.Minute)
	snapshot := feeds.OracleSnapshot{
		PhaseTiming: map[string]time.Time{"mint1": now.Add(-999 * time.Minute)},
	}
	narrativeByMint := map[string]feeds.NarrativeCandidate{
		"mint1": {TokenMint: "mint1", FirstSeenAt: firstSeen, Volume1h: 300, AverageVolume: 100, KOLFlag: true},
	}

	in := buildBaseSignalInput("mint1", snapshot, narrativeByMint, 1.0, models.State{}, now)

	if in.NarrativeAgeMinutes < 29 || in.NarrativeAgeMinutes > 31 {
		t.Fatalf("got narrative age %v, want ~30 minutes from the candidate, not PhaseTiming", in.NarrativeAgeMinutes)
	}
	if !in.KOLFlag {
		t.Fatalf("expected KOLFlag true from the narrative candidate")
	}
	if in.NarrativeVolumeMultiple != 3.0 {
		t.Fatalf("got volume multiple %v, want 3.0", in.NarrativeVolumeMultiple)
	}
}

func TestBuildBaseSignalInput_FallsBackToPhaseTimingWithoutNarrativeCandidate(t *testing.T) {
	now := time.Now()
	firstSeen := now.Add(-45 * time.Minute)
	snapshot := feeds.OracleSnapshot{
		PhaseTiming: map[string]time.Time{"mint1": firstSeen},
	}

	in := buildBaseSignalInput("mint1", snapshot, nil, 1.0, models.State{}, now)

	if in.NarrativeAgeMinutes < 44 || in.NarrativeAgeMinutes > 46 {
		t.Fatalf("got narrative age %v, want ~45 minutes from PhaseTiming", in.NarrativeAgeMinutes)
	}
}

func TestBuildBaseSignalInput_NoDataForMintLeavesZeroValues(t *testing.T) {
	now := time.Now()
	in := buildBaseSignalInput("unseen", feeds.OracleSnapshot{}, nil, 0.7, models.State{}, now)
	if in.WhaleCount != 0 || in.NarrativeAgeMinutes != 0 || in.Pulse.IsNonDefault() {
		t.Fatalf("expected all-zero input for unseen mint, got %+v", in)
	}
	if in.DataCompleteness != 0.7 {
		t.Fatalf("got data completeness %v, want 0.7 carried through", in.DataCompleteness)
	}
}

func TestToWardenProviderData_MarksProviderErrorOnFetchFailure(t *testing.T) {
	liquidity := 50000.0
	meta := feeds.TokenMetadata{LiquidityUSD: &liquidity}
	got := toWardenProviderData(meta, errTestFetch, nil)
	if !got.ProviderError {
		t.Fatalf("expected ProviderError true when fetch failed")
	}
	if got.LiquidityUSD != &liquidity {
		t.Fatalf("expected LiquidityUSD pointer carried through unchanged")
	}
}

func TestToWardenProviderData_NoErrorLeavesProviderErrorFalse(t *testing.T) {
	got := toWardenProviderData(feeds.TokenMetadata{}, nil, nil)
	if got.ProviderError {
		t.Fatalf("expected ProviderError false on successful fetch")
	}
}

func TestToWardenProviderData_CarriesPreFetchedLiquidity(t *testing.T) {
	pre := 5000.0
	got := toWardenProviderData(feeds.TokenMetadata{}, nil, &pre)
	if got.PreFetchedLiquidityUSD != &pre {
		t.Fatalf("expected PreFetchedLiquidityUSD pointer carried through unchanged")
	}
}

var errTestFetch = &fetchTestError{}

type fetchTestError struct{}

func (e *fetchTestError) Error() string { return "fetch failed" }
