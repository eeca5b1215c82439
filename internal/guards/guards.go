// Package guards implements the three orthogonal preconditions of
// spec.md §4.6 — killswitch, drawdown, and daily risk — evaluated
// before entry logic every cycle, plus the gateway-health guard
// supplemented from original_source/'s zombie-gateway detection.
package guards

import (
	"fmt"
	"os"
	"time"

	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

// Verdict mirrors the warden gate's PASS/WARN/FAIL shape, renamed to
// the guard domain's own vocabulary (entries are blocked, not failed).
type Verdict string

const (
	VerdictPass  Verdict = "PASS"
	VerdictWarn  Verdict = "WARN"
	VerdictBlock Verdict = "BLOCK"
)

// Result is one guard's outcome.
type Result struct {
	Verdict Verdict
	Reason  string
	// SizingMultiplier applies when a WARN halves position sizing
	// instead of blocking outright; 1.0 when no sizing adjustment applies.
	SizingMultiplier float64
}

func pass() Result { return Result{Verdict: VerdictPass, SizingMultiplier: 1.0} }

// Aggregate reduces several guard results the same way the warden
// gate does: any BLOCK wins, else any WARN, else PASS. The sizing
// multiplier carried forward is the smallest (most conservative) one
// seen among WARN/PASS results.
func Aggregate(results ...Result) Result {
	verdict := VerdictPass
	multiplier := 1.0
	var reason string
	for _, r := range results {
		switch r.Verdict {
		case VerdictBlock:
			return r
		case VerdictWarn:
			if verdict != VerdictBlock {
				verdict = VerdictWarn
				reason = r.Reason
			}
		}
		if r.SizingMultiplier > 0 && r.SizingMultiplier < multiplier {
			multiplier = r.SizingMultiplier
		}
	}
	return Result{Verdict: verdict, Reason: reason, SizingMultiplier: multiplier}
}

// CheckKillswitch reports BLOCK when the killswitch file exists. An
// empty path disables the guard.
func CheckKillswitch(path string) Result {
	if path == "" {
		return pass()
	}
	if _, err := os.Stat(path); err != nil {
		return pass()
	}
	reason := "killswitch file present"
	if raw, err := os.ReadFile(path); err == nil && len(raw) > 0 {
		reason = fmt.Sprintf("killswitch: %s", raw)
	}
	return Result{Verdict: VerdictBlock, Reason: reason}
}

// CheckDrawdown evaluates the drawdown halt and, on a state
// transition, mutates state's halt fields in place — callers persist
// the returned state via statestore after calling this.
func CheckDrawdown(state *models.State, cfg config.PortfolioRisk, now time.Time) Result {
	if state.HaltActive {
		if state.HaltStartedAt != nil && now.Sub(*state.HaltStartedAt).Hours() >= cfg.DrawdownHaltHours {
			state.HaltActive = false
			state.HaltStartedAt = nil
			state.HaltReason = ""
			return pass()
		}
		return Result{Verdict: VerdictBlock, Reason: "drawdown halt active: " + state.HaltReason}
	}

	haltThreshold := (1 - cfg.DrawdownHaltPct) * state.StartingPotSOL
	if state.PotSOL <= haltThreshold {
		state.HaltActive = true
		started := now
		state.HaltStartedAt = &started
		state.HaltReason = fmt.Sprintf("pot %.4f SOL at or below drawdown halt threshold %.4f SOL", state.PotSOL, haltThreshold)
		return Result{Verdict: VerdictBlock, Reason: state.HaltReason}
	}
	return pass()
}

// CheckDailyRisk evaluates the daily exposure, concurrent-position,
// consecutive-loss, and daily-loss limits against the current state.
func CheckDailyRisk(state *models.State, cfg config.Risk) Result {
	if state.PotSOL > 0 && cfg.Portfolio.DailyExposurePct > 0 {
		exposurePct := state.DailyExposureSOL / state.PotSOL * 100
		if exposurePct >= cfg.Portfolio.DailyExposurePct {
			return Result{Verdict: VerdictBlock, Reason: fmt.Sprintf("daily exposure %.1f%% >= limit %.1f%%", exposurePct, cfg.Portfolio.DailyExposurePct)}
		}
	}
	if cfg.Portfolio.MaxConcurrentPositions > 0 && len(state.OpenPositions) >= cfg.Portfolio.MaxConcurrentPositions {
		return Result{Verdict: VerdictBlock, Reason: fmt.Sprintf("%d open positions at max concurrent cap %d", len(state.OpenPositions), cfg.Portfolio.MaxConcurrentPositions)}
	}
	if cfg.CircuitBreakers.DailyLossPct > 0 && state.DailyLossPct >= cfg.CircuitBreakers.DailyLossPct {
		return Result{Verdict: VerdictBlock, Reason: fmt.Sprintf("daily loss %.1f%% >= limit %.1f%%", state.DailyLossPct, cfg.CircuitBreakers.DailyLossPct)}
	}
	if cfg.CircuitBreakers.ConsecutiveLosses > 0 && state.ConsecutiveLosses >= cfg.CircuitBreakers.ConsecutiveLosses {
		return Result{Verdict: VerdictWarn, Reason: fmt.Sprintf("%d consecutive losses, sizing halved", state.ConsecutiveLosses), SizingMultiplier: 0.5}
	}
	return pass()
}
