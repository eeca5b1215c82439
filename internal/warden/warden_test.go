package warden

import (
	"testing"

	"github.com/rawblock/boar-agent/internal/config"
	"github.com/rawblock/boar-agent/pkg/models"
)

func testRugWarden() config.RugWarden {
	return config.RugWarden{
		MinLiquidityUSD:    10_000,
		MaxHolderTop10Pct:  40,
		MinTokenAgeMinutes: 30,
		RequireLPLocked:    true,
	}
}

func ptrF(v float64) *float64 { return &v }
func ptrB(v bool) *bool       { return &v }

func goodProviderData() models.WardenProviderData {
	return models.WardenProviderData{
		LiquidityUSD:           ptrF(50_000),
		HolderTop10Pct:         ptrF(20),
		MintAuthorityMutable:   ptrB(false),
		FreezeAuthorityMutable: ptrB(false),
		TokenAgeMinutes:        ptrF(120),
		LPLockedOrBurned:       ptrB(true),
		HoneypotSimOK:          ptrB(true),
	}
}

func TestEvaluate_AllGoodYieldsPass(t *testing.T) {
	verdict, checks := Evaluate(goodProviderData(), models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenPass {
		t.Fatalf("verdict = %v, want PASS; checks=%+v", verdict, checks)
	}
	for _, c := range checks {
		if c.Verdict != models.WardenPass {
			t.Errorf("check %q = %v, want PASS", c.Name, c.Verdict)
		}
	}
}

func TestEvaluate_LowLiquidityFails(t *testing.T) {
	data := goodProviderData()
	data.LiquidityUSD = ptrF(100)
	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenFail {
		t.Fatalf("verdict = %v, want FAIL on low liquidity", verdict)
	}
}

func TestEvaluate_NearZeroLiquidityTrustsPreFetchedWhenLargeEnough(t *testing.T) {
	data := goodProviderData()
	data.LiquidityUSD = ptrF(0) // primary provider hasn't indexed this token yet
	data.PreFetchedLiquidityUSD = ptrF(50_000)
	verdict, checks := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenPass {
		t.Fatalf("verdict = %v, want PASS via pre-fetched liquidity; checks=%+v", verdict, checks)
	}
}

func TestEvaluate_NearZeroLiquidityIgnoresSmallPreFetchedValue(t *testing.T) {
	data := goodProviderData()
	data.LiquidityUSD = ptrF(0)
	data.PreFetchedLiquidityUSD = ptrF(500) // below the 1000 floor, not trusted
	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenFail {
		t.Fatalf("verdict = %v, want FAIL — pre-fetched value too small to trust", verdict)
	}
}

func TestEvaluate_NonZeroPrimaryLiquidityIgnoresPreFetched(t *testing.T) {
	data := goodProviderData()
	data.LiquidityUSD = ptrF(200) // not near-zero, so the primary reading wins
	data.PreFetchedLiquidityUSD = ptrF(50_000)
	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenFail {
		t.Fatalf("verdict = %v, want FAIL — primary reading of $200 should not be overridden", verdict)
	}
}

func TestEvaluate_HolderConcentration_FailsAccumulationWarnsGraduation(t *testing.T) {
	data := goodProviderData()
	data.HolderTop10Pct = ptrF(80)

	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenFail {
		t.Fatalf("accumulation verdict = %v, want FAIL", verdict)
	}

	verdict, _ = Evaluate(data, models.PlayGraduation, testRugWarden())
	if verdict != models.WardenWarn {
		t.Fatalf("graduation verdict = %v, want WARN", verdict)
	}
}

func TestEvaluate_MutableAuthorityFails(t *testing.T) {
	data := goodProviderData()
	data.MintAuthorityMutable = ptrB(true)
	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenFail {
		t.Fatalf("verdict = %v, want FAIL on mutable mint authority", verdict)
	}
}

func TestEvaluate_YoungTokenWarns(t *testing.T) {
	data := goodProviderData()
	data.TokenAgeMinutes = ptrF(1)
	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenWarn {
		t.Fatalf("verdict = %v, want WARN on young token", verdict)
	}
}

func TestEvaluate_LPUnlocked_WarnsAccumulationSilentGraduation(t *testing.T) {
	data := goodProviderData()
	data.LPLockedOrBurned = ptrB(false)

	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenWarn {
		t.Fatalf("accumulation verdict = %v, want WARN on unlocked LP", verdict)
	}

	verdict, _ = Evaluate(data, models.PlayGraduation, testRugWarden())
	if verdict != models.WardenPass {
		t.Fatalf("graduation verdict = %v, want PASS (silently accepted)", verdict)
	}
}

func TestEvaluate_ProviderErrorNeverPasses(t *testing.T) {
	data := goodProviderData()
	data.ProviderError = true
	verdict, _ := Evaluate(data, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenFail {
		t.Fatalf("verdict = %v, want FAIL when provider_error is set", verdict)
	}
}

func TestEvaluate_NullFieldsAreSafe(t *testing.T) {
	// Every pointer field nil: null-safe defaults (0/false) should
	// drive the checks to their conservative outcome without panicking.
	verdict, checks := Evaluate(models.WardenProviderData{}, models.PlayAccumulation, testRugWarden())
	if verdict != models.WardenFail {
		t.Fatalf("verdict = %v, want FAIL on all-null provider data", verdict)
	}
	if len(checks) != 6 {
		t.Fatalf("got %d checks, want 6", len(checks))
	}
}
