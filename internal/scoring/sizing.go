package scoring

import (
	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

// positionSizeSOL implements spec.md §4.2's sizing formula, clamped
// first by the portfolio-wide max-position fraction of the pot, then
// — for graduation plays only — by the USD sizing ceiling converted
// to SOL at the current price.
func positionSizeSOL(permissionScore float64, playType models.PlayType, potSOL, volatilityFactor, solPriceUSD float64, cfg config.Conviction) float64 {
	if volatilityFactor <= 0 {
		volatilityFactor = 1
	}
	size := (permissionScore / 100) * potSOL * cfg.Sizing.BaseMultiplier / volatilityFactor
	if size < 0 {
		size = 0
	}

	maxByPct := potSOL * cfg.Sizing.MaxPositionPct
	if size > maxByPct {
		size = maxByPct
	}

	if playType == models.PlayGraduation && cfg.Graduation.MaxPositionUSD > 0 && solPriceUSD > 0 {
		maxGraduationSOL := cfg.Graduation.MaxPositionUSD / solPriceUSD
		if size > maxGraduationSOL {
			size = maxGraduationSOL
		}
	}

	return size
}
