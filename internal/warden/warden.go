// Package warden implements the pre-trade token safety gate: six
// independent, null-safe checks aggregated to one verdict per
// spec.md §4.3. Like scoring, it is pure — no network calls, no
// clock reads — the caller is responsible for fetching
// WardenProviderData before invoking Evaluate.
package warden

import (
	"fmt"

	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

// Evaluate runs all six checks for the given profile (accumulation or
// graduation selects which threshold set and relaxations apply) and
// reduces them to an overall verdict: any FAIL wins, else any WARN
// wins, else PASS.
func Evaluate(data models.WardenProviderData, playType models.PlayType, cfg config.RugWarden) (models.WardenVerdict, []models.WardenCheckResult) {
	checks := []models.WardenCheckResult{
		checkLiquidity(data, cfg),
		checkHolderConcentration(data, playType, cfg),
		checkAuthorityImmutability(data, cfg),
		checkTokenAge(data, cfg),
		checkLPLocked(data, playType, cfg),
		checkHoneypot(data),
	}

	if data.ProviderError {
		checks = append(checks, models.WardenCheckResult{
			Name:    "provider_error",
			Verdict: models.WardenFail,
			Detail:  "one or more provider calls failed; warden never passes on incomplete data",
		})
	}

	return aggregate(checks), checks
}

// aggregate is the any-FAIL-wins / any-WARN-else-PASS reduction, the
// same shape as the teacher's multi-flag verdict aggregation.
func aggregate(checks []models.WardenCheckResult) models.WardenVerdict {
	verdict := models.WardenPass
	for _, c := range checks {
		switch c.Verdict {
		case models.WardenFail:
			return models.WardenFail
		case models.WardenWarn:
			verdict = models.WardenWarn
		}
	}
	return verdict
}

// Thresholds for trusting a pre-fetched liquidity figure over the
// primary provider's, matched to the original warden_check.py: the
// primary reading must be suspiciously near-zero, and the pre-fetched
// figure must itself be large enough to be meaningful.
const (
	liquidityNearZeroUSD  = 100
	liquidityPreFetchFloorUSD = 1000
)

func checkLiquidity(d models.WardenProviderData, cfg config.RugWarden) models.WardenCheckResult {
	liquidity := floatOrZero(d.LiquidityUSD)
	source := "provider"
	if pre := floatOrZero(d.PreFetchedLiquidityUSD); liquidity < liquidityNearZeroUSD && pre > liquidityPreFetchFloorUSD {
		liquidity = pre
		source = "pre-fetched"
	}
	if liquidity >= cfg.MinLiquidityUSD {
		return pass("liquidity", fmt.Sprintf("$%.0f (%s) >= min $%.0f", liquidity, source, cfg.MinLiquidityUSD))
	}
	return fail("liquidity", fmt.Sprintf("$%.0f (%s) < min $%.0f", liquidity, source, cfg.MinLiquidityUSD))
}

func checkHolderConcentration(d models.WardenProviderData, playType models.PlayType, cfg config.RugWarden) models.WardenCheckResult {
	top10 := floatOrZero(d.HolderTop10Pct)
	if top10 <= cfg.MaxHolderTop10Pct {
		return pass("holder_concentration", fmt.Sprintf("top10 %.1f%% <= max %.1f%%", top10, cfg.MaxHolderTop10Pct))
	}
	detail := fmt.Sprintf("top10 %.1f%% > max %.1f%%", top10, cfg.MaxHolderTop10Pct)
	if playType == models.PlayGraduation {
		return warn("holder_concentration", detail)
	}
	return fail("holder_concentration", detail)
}

func checkAuthorityImmutability(d models.WardenProviderData, cfg config.RugWarden) models.WardenCheckResult {
	if cfg.AllowMutableAuthority {
		return pass("authority_immutability", "mutable authority explicitly allowed by config")
	}
	mintMutable := boolOrFalse(d.MintAuthorityMutable)
	freezeMutable := boolOrFalse(d.FreezeAuthorityMutable)
	if !mintMutable && !freezeMutable {
		return pass("authority_immutability", "mint and freeze authority both immutable")
	}
	return fail("authority_immutability", fmt.Sprintf("mint_mutable=%v freeze_mutable=%v", mintMutable, freezeMutable))
}

func checkTokenAge(d models.WardenProviderData, cfg config.RugWarden) models.WardenCheckResult {
	age := floatOrZero(d.TokenAgeMinutes)
	if age >= cfg.MinTokenAgeMinutes {
		return pass("token_age", fmt.Sprintf("%.1f min >= min %.1f min", age, cfg.MinTokenAgeMinutes))
	}
	return warn("token_age", fmt.Sprintf("%.1f min < min %.1f min", age, cfg.MinTokenAgeMinutes))
}

func checkLPLocked(d models.WardenProviderData, playType models.PlayType, cfg config.RugWarden) models.WardenCheckResult {
	locked := boolOrFalse(d.LPLockedOrBurned)
	if locked || !cfg.RequireLPLocked {
		return pass("lp_locked", "lp locked/burned, or not required")
	}
	if playType == models.PlayGraduation {
		return pass("lp_locked", "lp unlocked, silently accepted for graduation plays")
	}
	return warn("lp_locked", "lp not locked or burned")
}

// checkHoneypot is a placeholder: no example in the pack implements a
// real swap-route simulator, so this checks only whether the provider
// reported a successful simulated sell path.
func checkHoneypot(d models.WardenProviderData) models.WardenCheckResult {
	if boolOrFalse(d.HoneypotSimOK) {
		return pass("honeypot_sim", "simulated sell path succeeded")
	}
	return warn("honeypot_sim", "no successful simulated sell path on record")
}

func pass(name, detail string) models.WardenCheckResult {
	return models.WardenCheckResult{Name: name, Verdict: models.WardenPass, Detail: detail}
}

func warn(name, detail string) models.WardenCheckResult {
	return models.WardenCheckResult{Name: name, Verdict: models.WardenWarn, Detail: detail}
}

func fail(name, detail string) models.WardenCheckResult {
	return models.WardenCheckResult{Name: name, Verdict: models.WardenFail, Detail: detail}
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func boolOrFalse(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
