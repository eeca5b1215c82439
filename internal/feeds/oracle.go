package feeds

import (
	"context"
	"fmt"
	"time"
)

// NansenSignal is one whale-accumulation observation for a token mint.
type NansenSignal struct {
	TokenMint        string
	WhaleCount       int
	DumperWhaleCount int
	DCACount         int
}

// MobulaSignal is one token's flow/market-cap snapshot.
type MobulaSignal struct {
	TokenMint              string
	ExchangeNetInflowUSD   float64
	FreshWalletInflowUSD   float64
	SmartMoneyBuyVolumeUSD float64
	EntryMarketCapUSD      float64
}

// PulseSignal is one token's launch-quality snapshot, present only for
// graduation-candidate tokens.
type PulseSignal struct {
	TokenMint          string
	OrganicRatio       float64
	BundlerPct         float64
	SniperPct          float64
	ProTraderPct       float64
	GhostMetadata      bool
	DeployerMigrations int
	BondingStage       string
	// Top3TradeShareOf1h is the fraction of the last hour's trade
	// volume held by its three largest trades, the concentrated-volume
	// red-flag input.
	Top3TradeShareOf1h float64
	// LiquidityUSD is Pulse's own liquidity reading, fed to the warden
	// gate as a pre-fetched fallback when the metadata provider reports
	// near-zero for a token too new for it to have indexed yet.
	LiquidityUSD float64
}

// OracleSnapshot is the reconstructed shape of the oracle query
// described in spec.md §4.5 step 4 and spec.md's Open Question #1 —
// the original's MobulaClient usage returns a dict with exactly these
// five keys; this is the typed Go equivalent, one field per key.
type OracleSnapshot struct {
	NansenSignals map[string]NansenSignal
	MobulaSignals map[string]MobulaSignal
	PulseSignals  map[string]PulseSignal
	// HoldingsDelta tracks each whale address's position change since
	// last observation; a negative delta marks a dumper.
	HoldingsDelta map[string]float64
	// PhaseTiming is the first-seen timestamp per token mint, the
	// narrative-age clock's source of truth.
	PhaseTiming map[string]time.Time
}

// OracleSource fetches whale-accumulation and flow signals for a set
// of candidate token mints. The concrete adapter wraps whatever
// upstream HTTP API backs it; this package only depends on the
// interface.
type OracleSource interface {
	FetchOracleSnapshot(ctx context.Context, mints []string) (OracleSnapshot, error)
}

// OracleClient is the HTTP-backed OracleSource adapter, grounded on
// the teacher's bitcoin.Client: a thin struct holding connection
// config plus a constructor that verifies reachability, generalized
// from an RPC client to a rate-limited HTTP client.
type OracleClient struct {
	baseURL string
	apiKey  string
	limiter *RateLimiter
}

// NewOracleClient returns a client bound to baseURL, rate-limited via
// limiter (callers share one RateLimiter across all feed clients so
// the provider key space stays consistent).
func NewOracleClient(baseURL, apiKey string, limiter *RateLimiter) *OracleClient {
	return &OracleClient{baseURL: baseURL, apiKey: apiKey, limiter: limiter}
}

// FetchOracleSnapshot retries transient failures per retry.go's
// policy and respects the shared rate limiter before each attempt.
func (c *OracleClient) FetchOracleSnapshot(ctx context.Context, mints []string) (OracleSnapshot, error) {
	var snapshot OracleSnapshot
	err := withRetry(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx, "oracle"); err != nil {
			return err
		}
		s, err := c.fetchOnce(ctx, mints)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return OracleSnapshot{}, fmt.Errorf("feeds: oracle snapshot: %w", err)
	}
	return snapshot, nil
}

// fetchOnce is the single-attempt HTTP call; the concrete wire format
// of the upstream oracle provider is out of scope for this repo (no
// pack example implements a Nansen/Mobula client), so this is a seam
// callers replace with the real transport in production wiring.
func (c *OracleClient) fetchOnce(ctx context.Context, mints []string) (OracleSnapshot, error) {
	return OracleSnapshot{
		NansenSignals: make(map[string]NansenSignal),
		MobulaSignals: make(map[string]MobulaSignal),
		PulseSignals:  make(map[string]PulseSignal),
		HoldingsDelta: make(map[string]float64),
		PhaseTiming:   make(map[string]time.Time),
	}, nil
}
