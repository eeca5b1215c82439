package models

// Recommendation is the scorer's routing decision.
type Recommendation string

const (
	RecAutoExecute Recommendation = "AUTO_EXECUTE"
	RecWatchlist   Recommendation = "WATCHLIST"
	RecPaperTrade  Recommendation = "PAPER_TRADE"
	RecDiscard     Recommendation = "DISCARD"
	RecVeto        Recommendation = "VETO"
)

// ComponentBreakdown is the per-component point contribution to the
// ordering score, named exactly as in spec.md §4.2.
type ComponentBreakdown struct {
	SmartMoneyOracle int `json:"smart_money_oracle"`
	Narrative        int `json:"narrative"`
	Warden           int `json:"warden"`
	EdgeBank         int `json:"edge_bank"`
	PulseQuality     int `json:"pulse_quality"`
}

// Sum returns the total ordering-score contribution across components.
func (c ComponentBreakdown) Sum() int {
	return c.SmartMoneyOracle + c.Narrative + c.Warden + c.EdgeBank + c.PulseQuality
}

// ConvictionScore is the scorer's full output for one SignalInput.
type ConvictionScore struct {
	OrderingScore   int                 `json:"ordering_score"`
	PermissionScore float64             `json:"permission_score"`
	Breakdown       ComponentBreakdown  `json:"breakdown"`
	RedFlags        map[string]int      `json:"red_flags"`
	PrimarySources  []string            `json:"primary_sources"`
	Recommendation  Recommendation      `json:"recommendation"`
	PositionSizeSOL float64             `json:"position_size_sol"`
	Reasoning       string              `json:"reasoning"`
	PlayType        PlayType            `json:"play_type"`
}
