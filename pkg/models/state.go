package models

import "time"

// State is the singleton persistent record the heartbeat orchestrator
// reads and rewrites every cycle under an exclusive file lock.
type State struct {
	PotSOL         float64              `json:"pot_sol"`
	StartingPotSOL float64              `json:"starting_pot_sol"`
	OpenPositions  map[string]*Position `json:"open_positions"`

	DailyExposureSOL      float64 `json:"daily_exposure_sol"`
	DailyGraduationCount  int     `json:"daily_graduation_count"`
	ConsecutiveLosses     int     `json:"consecutive_losses"`
	DailyLossPct          float64 `json:"daily_loss_pct"`
	DailyCounterDate      string  `json:"daily_counter_date"` // YYYY-MM-DD, UTC

	HaltActive    bool       `json:"halt_active"`
	HaltStartedAt *time.Time `json:"halt_started_at,omitempty"`
	HaltReason    string     `json:"halt_reason,omitempty"`

	DryRun bool `json:"dry_run"`

	LastHeartbeatAt time.Time `json:"last_heartbeat_at"`
	LastHeartbeatID string    `json:"last_heartbeat_id,omitempty"`

	LastAnchorAt time.Time `json:"last_anchor_at"`
}

// NewState returns a freshly initialized State for a starting pot.
func NewState(startingPotSOL float64) State {
	today := time.Now().UTC().Format("2006-01-02")
	return State{
		PotSOL:           startingPotSOL,
		StartingPotSOL:   startingPotSOL,
		OpenPositions:    make(map[string]*Position),
		DailyCounterDate: today,
	}
}

// ResetDailyCountersIfNeeded zeroes the daily counters when the UTC
// date has rolled over since the last reset.
func (s *State) ResetDailyCountersIfNeeded(now time.Time) {
	today := now.UTC().Format("2006-01-02")
	if s.DailyCounterDate == today {
		return
	}
	s.DailyCounterDate = today
	s.DailyExposureSOL = 0
	s.DailyGraduationCount = 0
	s.DailyLossPct = 0
	// ConsecutiveLosses intentionally persists across day boundaries;
	// it tracks a losing streak, not a daily count.
}
