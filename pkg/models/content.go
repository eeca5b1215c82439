package models

// FactContent is a raw, unopinionated observation from an external feed.
type FactContent struct {
	Source  string         `json:"source"`
	Payload map[string]any `json:"payload"`
}

func (FactContent) beadContent() {}

// ClaimContent is a derived assertion drawn from one or more FACT beads.
type ClaimContent struct {
	Assertion  string  `json:"assertion"`
	Confidence float64 `json:"confidence"`
}

func (ClaimContent) beadContent() {}

// SignalContent carries the full scorer output for one candidate token.
type SignalContent struct {
	TokenMint string         `json:"token_mint"`
	PlayType  PlayType       `json:"play_type"`
	Score     ConvictionScore `json:"score"`
}

func (SignalContent) beadContent() {}

// ProposalContent is an executable trade recommendation.
type ProposalContent struct {
	TokenMint      string  `json:"token_mint"`
	Recommendation string  `json:"recommendation"`
	PositionSizeSOL float64 `json:"position_size_sol"`
	Reasoning      string  `json:"reasoning"`
}

func (ProposalContent) beadContent() {}

// RejectionCategory classifies why a PROPOSAL_REJECTED bead was emitted.
type RejectionCategory string

const (
	RejectionVeto        RejectionCategory = "VETO"
	RejectionLowScore    RejectionCategory = "LOW_SCORE"
	RejectionRiskBreach  RejectionCategory = "RISK_BREACH"
)

// ProposalRejectedContent records a candidate that did not clear the
// scoring/warden pipeline.
type ProposalRejectedContent struct {
	TokenMint         string            `json:"token_mint"`
	Category          RejectionCategory `json:"category"`
	Reasoning         string            `json:"reasoning"`
	RejectionPolicyRef *string          `json:"rejection_policy_ref,omitempty"`
}

func (ProposalRejectedContent) beadContent() {}

// HeartbeatContent records one cycle's counters and diagnostics.
type HeartbeatContent struct {
	CycleID            string         `json:"cycle_id"`
	StartedAt          int64          `json:"started_at_unix"`
	DurationMs         int64          `json:"duration_ms"`
	Mode               string         `json:"mode"` // "normal" | "observe_only" | "read_only"
	CandidatesScored   int            `json:"candidates_scored"`
	ProposalsEmitted   int            `json:"proposals_emitted"`
	RejectionsEmitted  int            `json:"rejections_emitted"`
	ExitsEmitted       int            `json:"exits_emitted"`
	SourceFailures     []string       `json:"source_failures"`
	DataCompleteness   float64        `json:"data_completeness"`
	StateHash          string         `json:"state_hash"`
	FunnelDiagnostics  map[string]int `json:"funnel_diagnostics"`
	PreviousHeartbeatID string        `json:"previous_heartbeat_id,omitempty"`
}

func (HeartbeatContent) beadContent() {}

// PolicyContent is an immutable policy reference, e.g. a risk-breach
// rule that a PROPOSAL_REJECTED RISK_BREACH bead points back to.
type PolicyContent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     int    `json:"version"`
}

func (PolicyContent) beadContent() {}

// ModelVersionContent records a scoring-config change for audit.
type ModelVersionContent struct {
	Version     string `json:"version"`
	Description string `json:"description"`
}

func (ModelVersionContent) beadContent() {}

// AutopsyContent is a post-mortem on a closed position, feeding the
// edge-bank cold-start counter in the scorer.
type AutopsyContent struct {
	TokenMint string `json:"token_mint"`
	// PlayType is the entry's play type at the time it was opened, so
	// the edge bank can compute a win rate scoped to "setups like this
	// one" rather than mixing accumulation and graduation outcomes.
	PlayType     PlayType `json:"play_type"`
	EntryPrice   float64  `json:"entry_price"`
	ExitPrice    float64  `json:"exit_price"`
	PnLPct       float64  `json:"pnl_pct"`
	ExitReason   string   `json:"exit_reason"`
	MatchedEdges []string `json:"matched_edges"`
}

func (AutopsyContent) beadContent() {}

// SkillContent records a reusable diagnostic or repair action taken
// (or suggested) by the self-repair subsystem.
type SkillContent struct {
	Name   string `json:"name"`
	Action string `json:"action"`
	Gated  bool   `json:"human_gated"`
}

func (SkillContent) beadContent() {}
