package feeds

import (
	"context"
	"fmt"
	"time"
)

// NarrativeCandidate is one recently-surfaced small-cap token, as
// scanned per spec.md §4.5 step 5.
type NarrativeCandidate struct {
	TokenMint     string
	Volume1h      float64
	AverageVolume float64
	KOLFlag       bool
	FirstSeenAt   time.Time
}

// VolumeMultiple is the candidate's volume spike relative to its own
// trailing average; zero average means no spike can be computed.
func (c NarrativeCandidate) VolumeMultiple() float64 {
	if c.AverageVolume <= 0 {
		return 0
	}
	return c.Volume1h / c.AverageVolume
}

// AgeMinutes is the candidate's age since first observation, as of now.
func (c NarrativeCandidate) AgeMinutes(now time.Time) float64 {
	if c.FirstSeenAt.IsZero() {
		return 0
	}
	return now.Sub(c.FirstSeenAt).Minutes()
}

// NarrativeSource scans for recently-surfaced small-cap tokens and
// their volume history.
type NarrativeSource interface {
	ScanCandidates(ctx context.Context) ([]NarrativeCandidate, error)
}

// NarrativeClient is the HTTP-backed NarrativeSource adapter,
// following the same shape as OracleClient.
type NarrativeClient struct {
	baseURL string
	apiKey  string
	limiter *RateLimiter
}

// NewNarrativeClient returns a client bound to baseURL, rate-limited
// via the shared limiter.
func NewNarrativeClient(baseURL, apiKey string, limiter *RateLimiter) *NarrativeClient {
	return &NarrativeClient{baseURL: baseURL, apiKey: apiKey, limiter: limiter}
}

// ScanCandidates retries transient failures per retry.go's policy.
func (c *NarrativeClient) ScanCandidates(ctx context.Context) ([]NarrativeCandidate, error) {
	var candidates []NarrativeCandidate
	err := withRetry(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx, "narrative"); err != nil {
			return err
		}
		cs, err := c.scanOnce(ctx)
		if err != nil {
			return err
		}
		candidates = cs
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("feeds: narrative scan: %w", err)
	}
	return candidates, nil
}

// scanOnce is the single-attempt HTTP call; as with OracleClient's
// fetchOnce, the concrete upstream wire format is a seam for
// production wiring rather than something any pack example defines.
func (c *NarrativeClient) scanOnce(ctx context.Context) ([]NarrativeCandidate, error) {
	return nil, nil
}
