package scoring

import (
	"fmt"

	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

// Hard-veto thresholds not already carried on the input or config.
const (
	narrativeVetoAgeMinutes  = 2.0
	narrativeVetoMultiple    = 5.0
	deployerMigrationVetoMax = 5
)

// vetoCheck is one of the ordered hard vetoes of spec.md §4.2. It
// returns an explanatory reason and true when it fires; checks run in
// order and short-circuit on the first match.
type vetoCheck func(models.SignalInput, models.PlayType, config.Conviction) (string, bool)

func vetoChecks() []vetoCheck {
	return []vetoCheck{
		vetoWardenFail,
		vetoNarrativeTooNew,
		vetoSerialRugger,
		vetoPostGraduation,
		vetoGraduationCapReached,
		vetoGraduationMcapTooHigh,
	}
}

func vetoWardenFail(in models.SignalInput, _ models.PlayType, _ config.Conviction) (string, bool) {
	if in.WardenVerdict == models.WardenFail {
		return "RUG-WARDEN-VETO: warden verdict FAIL", true
	}
	return "", false
}

func vetoNarrativeTooNew(in models.SignalInput, _ models.PlayType, _ config.Conviction) (string, bool) {
	if in.NarrativeAgeMinutes < narrativeVetoAgeMinutes && in.NarrativeVolumeMultiple >= narrativeVetoMultiple {
		return fmt.Sprintf("narrative %.1fx volume at %.1f min is too new to be organic", in.NarrativeVolumeMultiple, in.NarrativeAgeMinutes), true
	}
	return "", false
}

func vetoSerialRugger(in models.SignalInput, _ models.PlayType, _ config.Conviction) (string, bool) {
	if in.Pulse.DeployerMigrations > deployerMigrationVetoMax {
		return fmt.Sprintf("deployer has %d prior migrations, serial rugger pattern", in.Pulse.DeployerMigrations), true
	}
	return "", false
}

func vetoPostGraduation(in models.SignalInput, _ models.PlayType, _ config.Conviction) (string, bool) {
	if in.Pulse.BondingStage == "bonded" {
		return "pulse stage is bonded, historical loss pattern", true
	}
	return "", false
}

func vetoGraduationCapReached(in models.SignalInput, playType models.PlayType, cfg config.Conviction) (string, bool) {
	if playType == models.PlayGraduation && in.DailyGraduationCount >= cfg.Graduation.MaxDailyPlays {
		return fmt.Sprintf("daily graduation cap of %d reached", cfg.Graduation.MaxDailyPlays), true
	}
	return "", false
}

func vetoGraduationMcapTooHigh(in models.SignalInput, playType models.PlayType, cfg config.Conviction) (string, bool) {
	if playType == models.PlayGraduation && in.EntryMarketCapUSD > cfg.Graduation.MaxMcapGraduation {
		return fmt.Sprintf("entry market cap $%.0f exceeds graduation ceiling $%.0f", in.EntryMarketCapUSD, cfg.Graduation.MaxMcapGraduation), true
	}
	return "", false
}

// vetoAllWhalesAreDumpers fires the one veto spec.md nests inside the
// red-flag section rather than the ordered list: if every whale behind
// a signal is also a dumper, the signal is treated as a hard veto
// instead of a penalty.
func vetoAllWhalesAreDumpers(in models.SignalInput) (string, bool) {
	if in.WhaleCount > 0 && in.DumperWhaleCount == in.WhaleCount {
		return "all whales are dumpers", true
	}
	return "", false
}

func vetoResult(playType models.PlayType, reason string) models.ConvictionScore {
	return models.ConvictionScore{
		PlayType:       playType,
		RedFlags:       map[string]int{},
		PrimarySources: []string{},
		Recommendation: models.RecVeto,
		Reasoning:      reason,
	}
}
