// Package config loads the agent's YAML configuration into a single
// immutable, fully-typed Config constructed once at startup. The core
// never touches the YAML file or a nested-dict representation again.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PortfolioRisk holds portfolio-level risk controls.
type PortfolioRisk struct {
	DrawdownHaltPct       float64 `yaml:"drawdown_halt_pct"`
	DrawdownHaltHours     float64 `yaml:"drawdown_halt_hours"`
	DailyExposurePct      float64 `yaml:"daily_exposure_pct"`
	MaxConcurrentPositions int    `yaml:"max_concurrent_positions"`
}

// CircuitBreakers holds the loss-streak and daily-loss breakers.
type CircuitBreakers struct {
	ConsecutiveLosses int     `yaml:"consecutive_losses"`
	DailyLossPct      float64 `yaml:"daily_loss_pct"`
}

// ComponentWeights holds the per-component point allocations for one
// scoring profile (accumulation or graduation).
type ComponentWeights struct {
	SmartMoneyOracleMax int `yaml:"smart_money_oracle_max"`
	NarrativeMax        int `yaml:"narrative_max"`
	WardenMax           int `yaml:"warden_max"`
	EdgeBankMax         int `yaml:"edge_bank_max"`
	PulseQualityMax     int `yaml:"pulse_quality_max"`
}

// Thresholds holds the routing cutoffs for permission score.
type Thresholds struct {
	AutoExecute           float64 `yaml:"auto_execute"`
	AutoExecuteGraduation float64 `yaml:"auto_execute_graduation"`
	Watchlist             float64 `yaml:"watchlist"`
	PaperTrade            float64 `yaml:"paper_trade"`
}

// Sizing holds position-sizing multipliers.
type Sizing struct {
	BaseMultiplier float64 `yaml:"base_multiplier"`
	// MaxPositionPct is the portfolio-level cap on a single position as
	// a fraction of the pot, applied before the graduation-specific
	// max_position_usd clamp.
	MaxPositionPct float64 `yaml:"max_position_pct"`
}

// Graduation holds graduation-play-specific caps.
type Graduation struct {
	MaxPositionUSD     float64 `yaml:"max_position_usd"`
	MaxDailyPlays      int     `yaml:"max_daily_plays"`
	MaxMcapGraduation  float64 `yaml:"max_mcap_graduation"`
	BondedStageBonus   int     `yaml:"bonded_stage_bonus"`
}

// Conviction bundles all conviction-scorer configuration.
type Conviction struct {
	Weights           ComponentWeights `yaml:"weights"`
	WeightsGraduation ComponentWeights `yaml:"weights_graduation"`
	Thresholds        Thresholds       `yaml:"thresholds"`
	Sizing            Sizing           `yaml:"sizing"`
	Graduation        Graduation       `yaml:"graduation"`
	// EdgeBankColdStartCount is the minimum number of autopsy beads
	// required before the edge-bank component is trusted; below it,
	// its weight is redistributed to warden.
	EdgeBankColdStartCount int `yaml:"edge_bank_cold_start_count"`
}

// RugWarden holds one profile's (accumulation or graduation) warden
// thresholds.
type RugWarden struct {
	MinLiquidityUSD     float64 `yaml:"min_liquidity_usd"`
	MaxHolderTop10Pct   float64 `yaml:"max_holder_top10_pct"`
	AllowMutableAuthority bool  `yaml:"allow_mutable_authority"`
	MinTokenAgeMinutes  float64 `yaml:"min_token_age_minutes"`
	RequireLPLocked     bool    `yaml:"require_lp_locked"`
}

// Trade holds execution-side trade parameters.
type Trade struct {
	StopLossPct     float64 `yaml:"stop_loss_pct"`
	TakeProfitPct   float64 `yaml:"take_profit_pct"`
	MaxPositionPct  float64 `yaml:"max_position_pct"`
	SlippageBps     int     `yaml:"slippage_bps"`
}

// Risk bundles portfolio risk and circuit-breaker configuration.
type Risk struct {
	Portfolio       PortfolioRisk   `yaml:"portfolio"`
	CircuitBreakers CircuitBreakers `yaml:"circuit_breakers"`
}

// Config is the immutable, fully-typed configuration the core
// consumes. It is constructed once at startup and never mutated.
type Config struct {
	Risk             Risk       `yaml:"risk"`
	Conviction       Conviction `yaml:"conviction"`
	RugWarden        RugWarden  `yaml:"rug_warden"`
	RugWardenGraduation RugWarden `yaml:"rug_warden_graduation"`
	Trade            Trade      `yaml:"trade"`

	CycleBudgetSeconds      int `yaml:"cycle_budget_seconds"`
	WatchdogBudgetSeconds   int `yaml:"watchdog_budget_seconds"`
	OracleBudgetSeconds     int `yaml:"oracle_budget_seconds"`
	MaxConcurrentFetches    int `yaml:"max_concurrent_fetches"`

	KillswitchPath string `yaml:"killswitch_path"`
	StateFilePath  string `yaml:"state_file_path"`

	NodeID string `yaml:"node_id"`
}

// stagingConfig mirrors Config field-for-field and is the only type
// yaml.Unmarshal ever touches; Load copies (never aliases) its fields
// into the returned immutable Config.
type stagingConfig Config

// Load reads and parses a YAML file into an immutable Config, applying
// defaults for any zero-valued field that has a documented default.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var staging stagingConfig
	if err := yaml.Unmarshal(raw, &staging); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := Config(staging)
	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults fills in the spec-mandated defaults for fields a
// caller's YAML left at zero value.
func applyDefaults(cfg *Config) {
	if cfg.CycleBudgetSeconds == 0 {
		cfg.CycleBudgetSeconds = 120
	}
	if cfg.WatchdogBudgetSeconds == 0 {
		cfg.WatchdogBudgetSeconds = 30
	}
	if cfg.OracleBudgetSeconds == 0 {
		cfg.OracleBudgetSeconds = 45
	}
	if cfg.MaxConcurrentFetches == 0 {
		cfg.MaxConcurrentFetches = 3
	}
	if cfg.Conviction.EdgeBankColdStartCount == 0 {
		cfg.Conviction.EdgeBankColdStartCount = 10
	}
	if cfg.Conviction.Weights.SmartMoneyOracleMax == 0 {
		cfg.Conviction.Weights.SmartMoneyOracleMax = 40
	}
	if cfg.Conviction.Sizing.BaseMultiplier == 0 {
		cfg.Conviction.Sizing.BaseMultiplier = 1.0
	}
	if cfg.Conviction.Sizing.MaxPositionPct == 0 {
		cfg.Conviction.Sizing.MaxPositionPct = 0.1
	}
	if cfg.Trade.MaxPositionPct == 0 {
		cfg.Trade.MaxPositionPct = 0.1
	}
	if cfg.NodeID == "" {
		cfg.NodeID = "boar-agent-node-1"
	}
}
