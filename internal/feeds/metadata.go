package feeds

import "context"

// TokenMetadata is the null-safe raw data the warden gate evaluates,
// mirrored field-for-field from models.WardenProviderData so callers
// can convert with a plain struct literal.
type TokenMetadata struct {
	LiquidityUSD           *float64
	HolderTop10Pct         *float64
	MintAuthorityMutable   *bool
	FreezeAuthorityMutable *bool
	TokenAgeMinutes        *float64
	LPLockedOrBurned       *bool
	HoneypotSimOK          *bool
}

// MetadataSource fetches warden-gate inputs for one token mint.
type MetadataSource interface {
	FetchMetadata(ctx context.Context, tokenMint string) (TokenMetadata, error)
}

// MetadataClient is the HTTP-backed MetadataSource. Its wire format is
// a deliberate seam, same rationale as OracleClient and PriceClient.
type MetadataClient struct {
	baseURL string
	apiKey  string
	limiter *RateLimiter
}

// NewMetadataClient returns a client rate-limited under the "metadata"
// provider bucket.
func NewMetadataClient(baseURL, apiKey string, limiter *RateLimiter) *MetadataClient {
	return &MetadataClient{baseURL: baseURL, apiKey: apiKey, limiter: limiter}
}

// FetchMetadata retries transient failures behind the shared rate limiter.
func (c *MetadataClient) FetchMetadata(ctx context.Context, tokenMint string) (TokenMetadata, error) {
	var meta TokenMetadata
	err := withRetry(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx, "metadata"); err != nil {
			return err
		}
		m, err := c.fetchOnce(ctx, tokenMint)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	return meta, err
}

func (c *MetadataClient) fetchOnce(ctx context.Context, tokenMint string) (TokenMetadata, error) {
	return TokenMetadata{}, nil
}
