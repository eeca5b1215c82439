// Package feeds wraps the agent's outbound external-data providers
// (on-chain oracle, narrative scanner, pulse launch data) behind typed
// contracts, a per-provider rate limiter, a bounded-concurrency batch
// helper, and a small retry helper.
package feeds

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter gates outbound calls per external provider. Unlike the
// teacher's inbound per-client-IP limiter — whose key space is
// unbounded and needs an idle-eviction sweep to avoid leaking memory —
// the provider key space here is the small, fixed set named in
// config.yaml (oracle, narrative, price, metadata), so buckets are
// created lazily and simply kept for the process lifetime.
type RateLimiter struct {
	ratePerSec rate.Limit
	burst      int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiter allows ratePerMin calls per minute per provider, with
// a burst capacity of burst calls.
func NewRateLimiter(ratePerMin, burst int) *RateLimiter {
	return &RateLimiter{
		ratePerSec: rate.Limit(float64(ratePerMin) / 60.0),
		burst:      burst,
		limiters:   make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiterFor(provider string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[provider]
	if !ok {
		l = rate.NewLimiter(rl.ratePerSec, rl.burst)
		rl.limiters[provider] = l
	}
	return l
}

// Wait blocks until a call for provider is permitted, or ctx is done —
// whichever comes first. Feed clients call this before every retry
// attempt, so a provider's budget is spent exactly once per attempt
// regardless of how withRetry schedules the next one.
func (rl *RateLimiter) Wait(ctx context.Context, provider string) error {
	return rl.limiterFor(provider).Wait(ctx)
}

// Allow reports whether a call for provider may proceed immediately,
// without blocking.
func (rl *RateLimiter) Allow(provider string) bool {
	return rl.limiterFor(provider).Allow()
}
