package scoring

import "github.com/rawblock/boar-agent/pkg/models"

// redFlags evaluates every independent penalty of spec.md §4.2 and
// returns them keyed by name. Each value is the positive magnitude
// subtracted from the ordering score — callers sum the map, they
// never need the sign.
func redFlags(in models.SignalInput, playType models.PlayType) map[string]int {
	flags := map[string]int{}

	if in.Top3TradeShareOf1h > redFlagConcentratedVolume {
		flags["concentrated_volume"] = 15
	}

	if in.DumperWhaleCount == 1 {
		flags["dumper_wallets"] = 15
	} else if in.DumperWhaleCount > 1 {
		flags["dumper_wallets"] = 30
	}

	if in.FreshWalletInflowUSD > redFlagFreshWalletInflowUSD {
		flags["fresh_wallet_inflow"] = 10
	}

	if in.ExchangeNetInflowUSD > 0 {
		flags["exchange_net_inflow"] = 10
	}

	if playType == models.PlayAccumulation && in.NarrativeVolumeMultiple >= 20 && !in.KOLFlag {
		flags["unsocialized_volume"] = 5
	}

	if in.WhaleCount >= 2 && in.NarrativeVolumeMultiple < 2 && !in.KOLFlag {
		flags["divergence_damping"] = 25
	}

	if in.Pulse.OrganicRatio > 0 && in.Pulse.OrganicRatio < redFlagLowOrganicRatioMax {
		flags["low_organic_ratio"] = 10
	}

	if in.Pulse.SniperPct > redFlagSniperHoldingsPct {
		flags["pulse_sniper"] = 10
	}

	if in.Pulse.BundlerPct >= redFlagHighBundlerPct {
		flags["pulse_bundler"] = 10
	}

	if playType == models.PlayGraduation &&
		in.EntryMarketCapUSD >= graduationCapZoneLowUSD && in.EntryMarketCapUSD <= graduationCapZoneHighUSD {
		flags["graduation_cap_zone"] = 5
	}

	return flags
}

func sumPenalties(flags map[string]int) int {
	total := 0
	for _, v := range flags {
		total += v
	}
	return total
}

// primarySources lists the independent signal streams that
// meaningfully contributed to this candidate.
func primarySources(in models.SignalInput) []string {
	var sources []string
	if in.WhaleCount >= 1 {
		sources = append(sources, "oracle")
	}
	if in.NarrativeVolumeMultiple >= 3 {
		sources = append(sources, "narrative")
	}
	if in.WardenVerdict == models.WardenPass {
		sources = append(sources, "warden")
	}
	if in.Pulse.OrganicRatio >= 0.3 && in.Pulse.ProTraderPct > 10 {
		sources = append(sources, "pulse")
	}
	if sources == nil {
		sources = []string{}
	}
	return sources
}
