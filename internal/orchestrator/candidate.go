package orchestrator

import (
	"time"

	"github.com/rawblock/boar-agent/internal/feeds"
	"github.com/rawblock/boar-agent/pkg/models"
)

// candidateMints returns the union of every token mint named by the
// oracle snapshot or the narrative scan, the "union of candidate mints
// from all sources" of spec.md §4.5 step 7.
func candidateMints(snapshot feeds.OracleSnapshot, narrative []feeds.NarrativeCandidate) []string {
	seen := map[string]bool{}
	var mints []string
	add := func(mint string) {
		if mint != "" && !seen[mint] {
			seen[mint] = true
			mints = append(mints, mint)
		}
	}
	for mint := range snapshot.NansenSignals {
		add(mint)
	}
	for mint := range snapshot.MobulaSignals {
		add(mint)
	}
	for mint := range snapshot.PulseSignals {
		add(mint)
	}
	for _, c := range narrative {
		add(c.TokenMint)
	}
	return mints
}

// buildBaseSignalInput assembles everything the scorer needs except
// WardenVerdict and the edge-bank fields, since both of those depend
// on PlayType, which itself is detected from this partial input — the
// caller completes the input with scoring.DetectPlayType, warden.Evaluate
// and loadEdgeBank before calling scoring.Score.
func buildBaseSignalInput(
	mint string,
	snapshot feeds.OracleSnapshot,
	narrativeByMint map[string]feeds.NarrativeCandidate,
	dataCompleteness float64,
	state models.State,
	now time.Time,
) models.SignalInput {
	in := models.SignalInput{
		TokenMint:            mint,
		DataCompleteness:     dataCompleteness,
		DailyGraduationCount: state.DailyGraduationCount,
		PotSOL:               state.PotSOL,
		VolatilityFactor:     1.0,
	}

	if n, ok := snapshot.NansenSignals[mint]; ok {
		in.WhaleCount = n.WhaleCount
		in.DumperWhaleCount = n.DumperWhaleCount
		in.DCACount = n.DCACount
	}
	if m, ok := snapshot.MobulaSignals[mint]; ok {
		in.ExchangeNetInflowUSD = m.ExchangeNetInflowUSD
		in.FreshWalletInflowUSD = m.FreshWalletInflowUSD
		in.SmartMoneyBuyVolumeUSD = m.SmartMoneyBuyVolumeUSD
		in.EntryMarketCapUSD = m.EntryMarketCapUSD
	}
	if p, ok := snapshot.PulseSignals[mint]; ok {
		in.Pulse = models.PulseQuality{
			OrganicRatio:       p.OrganicRatio,
			BundlerPct:         p.BundlerPct,
			SniperPct:          p.SniperPct,
			ProTraderPct:       p.ProTraderPct,
			GhostMetadata:      p.GhostMetadata,
			DeployerMigrations: p.DeployerMigrations,
			BondingStage:       p.BondingStage,
		}
		in.Top3TradeShareOf1h = p.Top3TradeShareOf1h
	}
	if c, ok := narrativeByMint[mint]; ok {
		in.NarrativeVolumeMultiple = c.VolumeMultiple()
		in.KOLFlag = c.KOLFlag
		in.NarrativeAgeMinutes = c.AgeMinutes(now)
	} else if firstSeen, ok := snapshot.PhaseTiming[mint]; ok {
		in.NarrativeAgeMinutes = now.Sub(firstSeen).Minutes()
	}
	return in
}

// toWardenProviderData converts a feeds.TokenMetadata fetch result into
// the warden gate's input shape, marking ProviderError when the fetch
// itself failed so the warden's never-pass-on-incomplete-data rule
// applies. preFetchedLiquidityUSD carries the pulse scan's own
// liquidity reading for this mint, if any — the warden gate trusts it
// over the metadata provider's figure when that one comes back
// near-zero for a token too new for the provider to have indexed.
func toWardenProviderData(meta feeds.TokenMetadata, fetchErr error, preFetchedLiquidityUSD *float64) models.WardenProviderData {
	return models.WardenProviderData{
		LiquidityUSD:           meta.LiquidityUSD,
		PreFetchedLiquidityUSD: preFetchedLiquidityUSD,
		HolderTop10Pct:         meta.HolderTop10Pct,
		MintAuthorityMutable:   meta.MintAuthorityMutable,
		FreezeAuthorityMutable: meta.FreezeAuthorityMutable,
		TokenAgeMinutes:        meta.TokenAgeMinutes,
		LPLockedOrBurned:       meta.LPLockedOrBurned,
		HoneypotSimOK:          meta.HoneypotSimOK,
		ProviderError:          fetchErr != nil,
	}
}
