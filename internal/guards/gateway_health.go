package guards

import (
	"sync"
	"time"
)

// GatewayHealth tracks the rolling health of the agent's chain-RPC
// gateway, supplementing the warden/killswitch/drawdown guards with a
// check the original implementation's zombie-gateway guard made but
// spec.md's distillation dropped: a gateway can keep answering pings
// while quietly falling behind (stale block height) or timing out on
// real calls. Grounded on the teacher's bitcoin.Client, which pings
// once at connect time; this generalizes that single check into a
// rolling counter evaluated every cycle.
type GatewayHealth struct {
	mu sync.Mutex

	maxStaleness     time.Duration
	maxConsecutiveTimeouts int

	lastBlockHeight     uint64
	lastBlockObservedAt time.Time
	consecutiveTimeouts int
}

// NewGatewayHealth returns a tracker with the given staleness and
// timeout tolerances.
func NewGatewayHealth(maxStaleness time.Duration, maxConsecutiveTimeouts int) *GatewayHealth {
	return &GatewayHealth{
		maxStaleness:           maxStaleness,
		maxConsecutiveTimeouts: maxConsecutiveTimeouts,
	}
}

// RecordBlockHeight is called whenever the orchestrator successfully
// reads the gateway's current block height. A height that hasn't
// advanced since the last observation does not reset the staleness
// clock; an increase does.
func (g *GatewayHealth) RecordBlockHeight(height uint64, observedAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if height > g.lastBlockHeight {
		g.lastBlockHeight = height
		g.lastBlockObservedAt = observedAt
	}
	g.consecutiveTimeouts = 0
}

// RecordTimeout is called whenever a gateway call times out.
func (g *GatewayHealth) RecordTimeout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.consecutiveTimeouts++
}

// Check evaluates the tracker's current state into a guard Result.
func (g *GatewayHealth) Check(now time.Time) Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.consecutiveTimeouts >= g.maxConsecutiveTimeouts && g.maxConsecutiveTimeouts > 0 {
		return Result{Verdict: VerdictBlock, Reason: "gateway timed out repeatedly, treating as down"}
	}
	if !g.lastBlockObservedAt.IsZero() && now.Sub(g.lastBlockObservedAt) > g.maxStaleness {
		return Result{Verdict: VerdictBlock, Reason: "gateway block height has not advanced within the staleness window, likely silently degraded"}
	}
	return pass()
}
