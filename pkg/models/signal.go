package models

// WardenVerdict is the per-check and aggregate outcome of the warden
// gate described in spec.md §4.3.
type WardenVerdict string

const (
	WardenPass WardenVerdict = "PASS"
	WardenWarn WardenVerdict = "WARN"
	WardenFail WardenVerdict = "FAIL"
)

// PulseQuality bundles the graduation-play-specific launch metadata.
// A zero value (all fields at their default) means "no pulse data" —
// the play-type detector treats that as accumulation.
type PulseQuality struct {
	OrganicRatio       float64 `json:"organic_ratio"`        // 0.0-1.0
	BundlerPct         float64 `json:"bundler_pct"`          // 0-100
	SniperPct          float64 `json:"sniper_pct"`           // 0-100
	ProTraderPct       float64 `json:"pro_trader_pct"`       // 0-100
	GhostMetadata      bool    `json:"ghost_metadata"`
	DeployerMigrations int     `json:"deployer_migrations"`
	BondingStage       string  `json:"bonding_stage"` // "pre" | "bonded"
}

// IsNonDefault reports whether any field carries launch-specific data,
// the trigger condition for play-type detection in spec.md §4.2.
func (p PulseQuality) IsNonDefault() bool {
	return p.OrganicRatio != 0 || p.BundlerPct != 0 || p.SniperPct != 0 ||
		p.ProTraderPct != 0 || p.GhostMetadata || p.DeployerMigrations != 0 ||
		p.BondingStage != ""
}

// SignalInput is the structured bundle fed to the conviction scorer.
type SignalInput struct {
	TokenMint string `json:"token_mint"`

	WhaleCount             int     `json:"whale_count"`
	DumperWhaleCount       int     `json:"dumper_whale_count"`
	NarrativeVolumeMultiple float64 `json:"narrative_volume_multiple"`
	KOLFlag                bool    `json:"kol_flag"`
	NarrativeAgeMinutes    float64 `json:"narrative_age_minutes"`

	WardenVerdict WardenVerdict `json:"warden_verdict"`

	ExchangeNetInflowUSD   float64 `json:"exchange_net_inflow_usd"`
	FreshWalletInflowUSD   float64 `json:"fresh_wallet_inflow_usd"`
	SmartMoneyBuyVolumeUSD float64 `json:"smart_money_buy_volume_usd"`
	DCACount               int     `json:"dca_count"`

	Top3TradeShareOf1h float64 `json:"top3_trade_share_of_1h"` // 0.0-1.0

	Pulse PulseQuality `json:"pulse"`

	EnrichmentBonus int `json:"enrichment_bonus"`

	EntryMarketCapUSD float64 `json:"entry_market_cap_usd"`

	// DataCompleteness is carried in from the cycle's source-failure
	// accounting (spec.md §4.5 step 6); 1.0 when all sources succeeded.
	DataCompleteness float64 `json:"data_completeness"`

	// AutopsyMatchPct is the fraction (0.0-1.0) of same-play-type
	// autopsy beads that closed in profit; the scorer's edge-bank
	// component awards nothing below 0.70.
	AutopsyMatchPct float64 `json:"autopsy_match_pct"`
	// AutopsyBeadCount backs the cold-start redistribution rule.
	AutopsyBeadCount int `json:"autopsy_bead_count"`

	// DailyGraduationCount is today's count of graduation plays already
	// taken, checked against the configured daily cap (veto 5).
	DailyGraduationCount int `json:"daily_graduation_count"`

	// PotSOL, VolatilityFactor and SolPriceUSD carry the per-cycle
	// sizing context through the otherwise pure scorer, so Score stays
	// a two-argument function instead of growing a sizing-specific
	// parameter list.
	PotSOL           float64 `json:"pot_sol"`
	VolatilityFactor float64 `json:"volatility_factor"`
	SolPriceUSD      float64 `json:"sol_price_usd"`
}

// PlayType classifies an opportunity per spec.md's play-type detector.
type PlayType string

const (
	PlayGraduation  PlayType = "graduation"
	PlayAccumulation PlayType = "accumulation"
)

// WardenCheckResult is one of the six named checks in spec.md §4.3.
type WardenCheckResult struct {
	Name    string        `json:"name"`
	Verdict WardenVerdict `json:"verdict"`
	Detail  string        `json:"detail"`
}

// WardenProviderData is the null-safe raw input to the warden gate.
// All pointer fields default to their spec-mandated zero/false value
// when nil.
type WardenProviderData struct {
	LiquidityUSD        *float64 `json:"liquidity_usd"`
	// PreFetchedLiquidityUSD is a liquidity figure already on hand from
	// the narrative/pulse scan (§4.5 step 5), trusted in place of
	// LiquidityUSD when the primary provider reports near-zero for a
	// token too new for it to have indexed yet.
	PreFetchedLiquidityUSD *float64 `json:"pre_fetched_liquidity_usd"`
	HolderTop10Pct       *float64 `json:"holder_top10_pct"`
	MintAuthorityMutable *bool    `json:"mint_authority_mutable"`
	FreezeAuthorityMutable *bool  `json:"freeze_authority_mutable"`
	TokenAgeMinutes      *float64 `json:"token_age_minutes"`
	LPLockedOrBurned     *bool    `json:"lp_locked_or_burned"`
	HoneypotSimOK        *bool    `json:"honeypot_sim_ok"`
	// ProviderError is set when any underlying provider call failed;
	// the warden never returns PASS in that case.
	ProviderError bool `json:"provider_error"`
}
