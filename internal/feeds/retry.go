package feeds

import (
	"context"
	"time"
)

const (
	retryBaseDelay = 1 * time.Second
	retryMaxDelay  = 10 * time.Second
	retryAttempts  = 3
)

// withRetry calls fn up to retryAttempts times with exponential
// backoff (base 1s, capped at 10s), returning the first success or the
// last error once attempts are exhausted. It stops early if ctx is
// canceled between attempts.
func withRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := retryBaseDelay
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
