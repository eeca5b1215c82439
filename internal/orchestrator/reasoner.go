package orchestrator

import (
	"context"

	"github.com/rawblock/boar-agent/pkg/models"
)

// ReasonerAdvice is one candidate's optional upgrade recommendation
// from the external reasoner of spec.md §4.5 step 7.
type ReasonerAdvice struct {
	// Upgrade requests promoting WATCHLIST to AUTO_EXECUTE. The
	// reasoner can never override a VETO — the cycle enforces that,
	// not the reasoner.
	Upgrade bool
	// DivergenceDamping mirrors the scorer's own divergence-damping
	// red flag; when set alongside Upgrade, S5 arbitration demotes the
	// candidate back to WATCHLIST regardless of the reasoner's advice.
	DivergenceDamping bool
	Reasoning         string
}

// Reasoner optionally upgrades a WATCHLIST candidate to AUTO_EXECUTE
// when warden==PASS, per spec.md §4.5 step 7. No pack example builds
// an LLM-backed arbitration client, so the concrete wire format is a
// seam; NoOpReasoner is the default and never upgrades anything.
type Reasoner interface {
	Consult(ctx context.Context, input models.SignalInput, score models.ConvictionScore) (ReasonerAdvice, error)
}

// NoOpReasoner always declines to upgrade. It is the default Reasoner
// so a cycle runs identically with or without an external reasoner
// configured.
type NoOpReasoner struct{}

func (NoOpReasoner) Consult(ctx context.Context, input models.SignalInput, score models.ConvictionScore) (ReasonerAdvice, error) {
	return ReasonerAdvice{}, nil
}

// applyReasonerUpgrade implements spec.md §4.5 step 7's reasoner
// consultation plus S5 arbitration demotion. It never touches a VETO.
func applyReasonerUpgrade(ctx context.Context, reasoner Reasoner, input models.SignalInput, score models.ConvictionScore, wardenVerdict models.WardenVerdict) models.ConvictionScore {
	if score.Recommendation != models.RecWatchlist || wardenVerdict != models.WardenPass || reasoner == nil {
		return score
	}
	advice, err := reasoner.Consult(ctx, input, score)
	if err != nil || !advice.Upgrade {
		return score
	}
	if advice.DivergenceDamping || score.RedFlags["divergence_damping"] > 0 || score.PermissionScore < 50 {
		score.Reasoning = joinReasoning(score.Reasoning, "S5 arbitration: reasoner upgrade demoted back to WATCHLIST (divergence damping or permission score below 50)")
		return score
	}
	score.Recommendation = models.RecAutoExecute
	score.Reasoning = joinReasoning(score.Reasoning, "reasoner upgrade: WATCHLIST -> AUTO_EXECUTE ("+advice.Reasoning+")")
	return score
}

func joinReasoning(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return existing + "; " + addition
}
