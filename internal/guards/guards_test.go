package guards

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

func TestCheckKillswitch_EmptyPathDisablesGuard(t *testing.T) {
	if got := CheckKillswitch(""); got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS", got.Verdict)
	}
}

func TestCheckKillswitch_MissingFilePasses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "killswitch")
	if got := CheckKillswitch(path); got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS", got.Verdict)
	}
}

func TestCheckKillswitch_PresentFileBlocksWithReason(t *testing.T) {
	path := filepath.Join(t.TempDir(), "killswitch")
	if err := os.WriteFile(path, []byte("manual halt: investigating exchange outage"), 0o600); err != nil {
		t.Fatalf("write killswitch: %v", err)
	}
	got := CheckKillswitch(path)
	if got.Verdict != VerdictBlock {
		t.Fatalf("got %v, want BLOCK", got.Verdict)
	}
	if got.Reason == "" {
		t.Fatalf("expected non-empty reason")
	}
}

func TestCheckDrawdown_TriggersHaltWhenPotBelowThreshold(t *testing.T) {
	state := &models.State{PotSOL: 60, StartingPotSOL: 100}
	cfg := config.PortfolioRisk{DrawdownHaltPct: 0.30, DrawdownHaltHours: 24}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got := CheckDrawdown(state, cfg, now)
	if got.Verdict != VerdictBlock {
		t.Fatalf("got %v, want BLOCK", got.Verdict)
	}
	if !state.HaltActive {
		t.Fatalf("expected HaltActive to be set")
	}
	if state.HaltStartedAt == nil || !state.HaltStartedAt.Equal(now) {
		t.Fatalf("expected HaltStartedAt == now, got %v", state.HaltStartedAt)
	}
}

func TestCheckDrawdown_StaysHaltedBeforeAutoClearWindow(t *testing.T) {
	started := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	state := &models.State{PotSOL: 60, StartingPotSOL: 100, HaltActive: true, HaltStartedAt: &started, HaltReason: "prior halt"}
	cfg := config.PortfolioRisk{DrawdownHaltPct: 0.30, DrawdownHaltHours: 24}

	got := CheckDrawdown(state, cfg, started.Add(time.Hour))
	if got.Verdict != VerdictBlock {
		t.Fatalf("got %v, want BLOCK", got.Verdict)
	}
	if !state.HaltActive {
		t.Fatalf("expected halt to remain active before the window elapses")
	}
}

func TestCheckDrawdown_AutoClearsAfterConfiguredHours(t *testing.T) {
	started := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	state := &models.State{PotSOL: 60, StartingPotSOL: 100, HaltActive: true, HaltStartedAt: &started, HaltReason: "prior halt"}
	cfg := config.PortfolioRisk{DrawdownHaltPct: 0.30, DrawdownHaltHours: 24}

	got := CheckDrawdown(state, cfg, started.Add(25*time.Hour))
	if got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS after auto-clear window", got.Verdict)
	}
	if state.HaltActive {
		t.Fatalf("expected HaltActive cleared")
	}
	if state.HaltStartedAt != nil {
		t.Fatalf("expected HaltStartedAt cleared")
	}
}

func TestCheckDrawdown_PotAboveThresholdPasses(t *testing.T) {
	state := &models.State{PotSOL: 90, StartingPotSOL: 100}
	cfg := config.PortfolioRisk{DrawdownHaltPct: 0.30, DrawdownHaltHours: 24}
	if got := CheckDrawdown(state, cfg, time.Now()); got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS", got.Verdict)
	}
}

func TestCheckDailyRisk_ExposureOverLimitBlocks(t *testing.T) {
	state := &models.State{PotSOL: 100, DailyExposureSOL: 25}
	cfg := config.Risk{Portfolio: config.PortfolioRisk{DailyExposurePct: 20}}
	if got := CheckDailyRisk(state, cfg); got.Verdict != VerdictBlock {
		t.Fatalf("got %v, want BLOCK", got.Verdict)
	}
}

func TestCheckDailyRisk_ConcurrentPositionsOverCapBlocks(t *testing.T) {
	state := &models.State{
		PotSOL: 100,
		OpenPositions: map[string]*models.Position{
			"a": {}, "b": {}, "c": {},
		},
	}
	cfg := config.Risk{Portfolio: config.PortfolioRisk{MaxConcurrentPositions: 2}}
	if got := CheckDailyRisk(state, cfg); got.Verdict != VerdictBlock {
		t.Fatalf("got %v, want BLOCK", got.Verdict)
	}
}

func TestCheckDailyRisk_DailyLossOverLimitBlocks(t *testing.T) {
	state := &models.State{PotSOL: 100, DailyLossPct: 12}
	cfg := config.Risk{CircuitBreakers: config.CircuitBreakers{DailyLossPct: 10}}
	if got := CheckDailyRisk(state, cfg); got.Verdict != VerdictBlock {
		t.Fatalf("got %v, want BLOCK", got.Verdict)
	}
}

func TestCheckDailyRisk_ConsecutiveLossesWarnsAndHalvesSizing(t *testing.T) {
	state := &models.State{PotSOL: 100, ConsecutiveLosses: 3}
	cfg := config.Risk{CircuitBreakers: config.CircuitBreakers{ConsecutiveLosses: 3}}
	got := CheckDailyRisk(state, cfg)
	if got.Verdict != VerdictWarn {
		t.Fatalf("got %v, want WARN", got.Verdict)
	}
	if got.SizingMultiplier != 0.5 {
		t.Fatalf("got multiplier %v, want 0.5", got.SizingMultiplier)
	}
}

func TestCheckDailyRisk_UnconfiguredThresholdsNeverBlock(t *testing.T) {
	state := &models.State{PotSOL: 0, DailyExposureSOL: 0, ConsecutiveLosses: 50, DailyLossPct: 90}
	got := CheckDailyRisk(state, config.Risk{})
	if got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS when no thresholds configured", got.Verdict)
	}
}

func TestCheckDailyRisk_AllClearPasses(t *testing.T) {
	state := &models.State{PotSOL: 100, DailyExposureSOL: 5}
	cfg := config.Risk{
		Portfolio:       config.PortfolioRisk{DailyExposurePct: 20, MaxConcurrentPositions: 5},
		CircuitBreakers: config.CircuitBreakers{DailyLossPct: 10, ConsecutiveLosses: 3},
	}
	if got := CheckDailyRisk(state, cfg); got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS", got.Verdict)
	}
}

func TestAggregate_AnyBlockWins(t *testing.T) {
	got := Aggregate(pass(), Result{Verdict: VerdictWarn, Reason: "warn"}, Result{Verdict: VerdictBlock, Reason: "blocked"})
	if got.Verdict != VerdictBlock || got.Reason != "blocked" {
		t.Fatalf("got %+v, want BLOCK with the blocking reason", got)
	}
}

func TestAggregate_WarnWinsOverPassWhenNoBlock(t *testing.T) {
	got := Aggregate(pass(), Result{Verdict: VerdictWarn, Reason: "degraded", SizingMultiplier: 0.5})
	if got.Verdict != VerdictWarn {
		t.Fatalf("got %v, want WARN", got.Verdict)
	}
	if got.SizingMultiplier != 0.5 {
		t.Fatalf("got multiplier %v, want 0.5 carried from the WARN result", got.SizingMultiplier)
	}
}

func TestAggregate_AllPassYieldsPassWithFullSizing(t *testing.T) {
	got := Aggregate(pass(), pass(), pass())
	if got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS", got.Verdict)
	}
	if got.SizingMultiplier != 1.0 {
		t.Fatalf("got multiplier %v, want 1.0", got.SizingMultiplier)
	}
}

func TestAggregate_EmptyYieldsPass(t *testing.T) {
	if got := Aggregate(); got.Verdict != VerdictPass {
		t.Fatalf("got %v, want PASS", got.Verdict)
	}
}
