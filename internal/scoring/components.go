package scoring

import (
	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

// Per-whale and per-tier point values, calibrated directly from
// spec.md §4.2 rather than left configurable — they describe the
// shape of the curve, not a tunable risk parameter.
const (
	pointsPerWhale = 15

	edgeBankMatchFloor = 0.70 // below this, edge bank contributes nothing

	wardenWarnFractionAccumulation = 0.50
	wardenWarnFractionGraduation   = 0.75

	redFlagFreshWalletInflowUSD = 50_000.0
	redFlagConcentratedVolume   = 0.70
	redFlagSniperHoldingsPct    = 30.0
	redFlagHighBundlerPct       = 20.0
	redFlagLowOrganicRatioMax   = 0.30
	graduationCapZoneLowUSD     = 25_000.0
	graduationCapZoneHighUSD    = 100_000.0
)

// weightsFor selects the component weight profile for playType.
func weightsFor(playType models.PlayType, cfg config.Conviction) config.ComponentWeights {
	if playType == models.PlayGraduation {
		return cfg.WeightsGraduation
	}
	return cfg.Weights
}

// smartMoneyOracleScore awards points per distinct whale, capped at
// the profile max (which is configured to 0 for graduation plays).
func smartMoneyOracleScore(in models.SignalInput, max int) int {
	pts := in.WhaleCount * pointsPerWhale
	return clampInt(pts, 0, max)
}

// narrativeAgeDecay is 1.0 at or under 30 minutes, falling linearly to
// 0 at 60 minutes and beyond.
func narrativeAgeDecay(ageMinutes float64) float64 {
	const holdMinutes, zeroMinutes = 30.0, 60.0
	if ageMinutes <= holdMinutes {
		return 1.0
	}
	if ageMinutes >= zeroMinutes {
		return 0.0
	}
	return (zeroMinutes - ageMinutes) / (zeroMinutes - holdMinutes)
}

// narrativeVolumeTier is the un-decayed point value for a volume
// multiple, per spec.md's gradient: 2x->5, 3x->10, 5x->15, 10x->20,
// 20x+->25.
func narrativeVolumeTier(multiple float64) int {
	switch {
	case multiple >= 20:
		return 25
	case multiple >= 10:
		return 20
	case multiple >= 5:
		return 15
	case multiple >= 3:
		return 10
	case multiple >= 2:
		return 5
	default:
		return 0
	}
}

func narrativeScore(in models.SignalInput, max int) int {
	base := narrativeVolumeTier(in.NarrativeVolumeMultiple)
	if in.KOLFlag {
		base += 10
	}
	decayed := int(float64(base) * narrativeAgeDecay(in.NarrativeAgeMinutes))
	return clampInt(decayed, 0, max)
}

func wardenScore(in models.SignalInput, playType models.PlayType, max int) int {
	switch in.WardenVerdict {
	case models.WardenPass:
		return max
	case models.WardenWarn:
		fraction := wardenWarnFractionAccumulation
		if playType == models.PlayGraduation {
			fraction = wardenWarnFractionGraduation
		}
		return int(float64(max) * fraction)
	default:
		// FAIL is a hard veto evaluated before components are scored.
		return 0
	}
}

// edgeBankColdStart reports whether too few autopsy beads exist for
// the edge-bank signal to be trusted yet.
func edgeBankColdStart(in models.SignalInput, cfg config.Conviction) bool {
	return in.AutopsyBeadCount < cfg.EdgeBankColdStartCount
}

// edgeBankScore is zero below a 70% historical match, linear from
// half points at 70% to full points at 100%.
func edgeBankScore(in models.SignalInput, max int) int {
	if in.AutopsyMatchPct < edgeBankMatchFloor {
		return 0
	}
	frac := (in.AutopsyMatchPct - edgeBankMatchFloor) / (1.0 - edgeBankMatchFloor)
	pts := float64(max)/2 + frac*float64(max)/2
	return clampInt(int(pts), 0, max)
}

func organicRatioTier(ratio float64) int {
	switch {
	case ratio >= 0.70:
		return 15
	case ratio >= 0.50:
		return 10
	case ratio >= 0.30:
		return 5
	default:
		return 0
	}
}

func proTraderTier(pct float64) int {
	switch {
	case pct >= 20:
		return 10
	case pct >= 10:
		return 5
	default:
		return 0
	}
}

// pulseQualityScore only applies to graduation plays; callers must
// gate on play type before adding this into the breakdown.
func pulseQualityScore(in models.SignalInput, max int) int {
	pts := organicRatioTier(in.Pulse.OrganicRatio)
	if in.Pulse.GhostMetadata {
		pts += 5
	}
	pts += proTraderTier(in.Pulse.ProTraderPct)
	if in.Pulse.BundlerPct > 0 && in.Pulse.BundlerPct < 10 {
		pts += 5
	}
	if in.Pulse.BondingStage == "pre" {
		pts += 5
	}
	return clampInt(pts, 0, max)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
