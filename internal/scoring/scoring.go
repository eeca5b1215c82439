package scoring

import (
	"fmt"
	"strings"

	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

// Score builds a ConvictionScore for one candidate. It never reads the
// clock, never performs I/O, and is safe to call concurrently across
// candidates — the only shared state it touches is cfg, which callers
// treat as immutable.
func Score(input models.SignalInput, cfg config.Conviction) models.ConvictionScore {
	playType := DetectPlayType(input)

	for _, check := range vetoChecks() {
		if reason, vetoed := check(input, playType, cfg); vetoed {
			return vetoResult(playType, reason)
		}
	}
	if reason, vetoed := vetoAllWhalesAreDumpers(input); vetoed {
		return vetoResult(playType, reason)
	}

	weights := weightsFor(playType, cfg)
	coldStart := edgeBankColdStart(input, cfg)

	wardenMax := weights.WardenMax
	if coldStart {
		wardenMax += weights.EdgeBankMax
	}

	breakdown := models.ComponentBreakdown{
		SmartMoneyOracle: smartMoneyOracleScore(input, weights.SmartMoneyOracleMax),
		Narrative:        narrativeScore(input, weights.NarrativeMax),
		Warden:           wardenScore(input, playType, wardenMax),
	}
	if !coldStart {
		breakdown.EdgeBank = edgeBankScore(input, weights.EdgeBankMax)
	}
	if playType == models.PlayGraduation {
		breakdown.PulseQuality = pulseQualityScore(input, weights.PulseQualityMax)
	}

	orderingScore := breakdown.Sum()

	flags := redFlags(input, playType)
	completeness := input.DataCompleteness
	if completeness <= 0 {
		completeness = 1.0
	}
	permissionScore := float64(orderingScore-sumPenalties(flags)) * completeness
	if permissionScore < 0 {
		permissionScore = 0
	}

	sources := primarySources(input)

	recommendation, reason := route(permissionScore, playType, len(sources), cfg)
	recommendation, reason = applyTimeMismatchDowngrade(input, recommendation, reason)

	size := 0.0
	if recommendation == models.RecAutoExecute || recommendation == models.RecWatchlist || recommendation == models.RecPaperTrade {
		size = positionSizeSOL(permissionScore, playType, input.PotSOL, input.VolatilityFactor, input.SolPriceUSD, cfg)
	}

	return models.ConvictionScore{
		OrderingScore:   orderingScore,
		PermissionScore: permissionScore,
		Breakdown:       breakdown,
		RedFlags:        flags,
		PrimarySources:  sources,
		Recommendation:  recommendation,
		PositionSizeSOL: size,
		Reasoning:       reason,
		PlayType:        playType,
	}
}

// route applies spec.md §4.2's threshold cascade, returning the
// recommendation and the reasoning string that explains it.
func route(permissionScore float64, playType models.PlayType, primarySourceCount int, cfg config.Conviction) (models.Recommendation, string) {
	autoExecuteThreshold := cfg.Thresholds.AutoExecute
	if playType == models.PlayGraduation {
		autoExecuteThreshold = cfg.Thresholds.AutoExecuteGraduation
	}

	switch {
	case permissionScore >= autoExecuteThreshold && (playType == models.PlayGraduation || primarySourceCount >= 2):
		return models.RecAutoExecute, fmt.Sprintf("permission score %.1f clears auto-execute threshold %.1f with %d primary sources", permissionScore, autoExecuteThreshold, primarySourceCount)
	case permissionScore >= autoExecuteThreshold:
		return models.RecWatchlist, fmt.Sprintf("permission gate: score %.1f clears auto-execute but only %d primary source(s)", permissionScore, primarySourceCount)
	case permissionScore >= cfg.Thresholds.Watchlist:
		return models.RecWatchlist, fmt.Sprintf("permission score %.1f clears watchlist threshold %.1f", permissionScore, cfg.Thresholds.Watchlist)
	case permissionScore >= cfg.Thresholds.PaperTrade:
		return models.RecPaperTrade, fmt.Sprintf("permission score %.1f clears paper-trade threshold %.1f", permissionScore, cfg.Thresholds.PaperTrade)
	default:
		return models.RecDiscard, fmt.Sprintf("permission score %.1f below paper-trade threshold %.1f", permissionScore, cfg.Thresholds.PaperTrade)
	}
}

// applyTimeMismatchDowngrade demotes AUTO_EXECUTE to WATCHLIST and
// WATCHLIST to DISCARD when oracle-side accumulation signal and
// narrative-side freshness disagree on how mature the opportunity is.
func applyTimeMismatchDowngrade(in models.SignalInput, rec models.Recommendation, reason string) (models.Recommendation, string) {
	if in.WhaleCount < 1 || in.NarrativeAgeMinutes >= 5 {
		return rec, reason
	}
	switch rec {
	case models.RecAutoExecute:
		return models.RecWatchlist, joinReason(reason, "time-mismatch downgrade: oracle accumulation present with narrative under 5 min old")
	case models.RecWatchlist:
		return models.RecDiscard, joinReason(reason, "time-mismatch downgrade: oracle accumulation present with narrative under 5 min old")
	default:
		return rec, reason
	}
}

func joinReason(reason, addition string) string {
	if reason == "" {
		return addition
	}
	return strings.Join([]string{reason, addition}, "; ")
}
