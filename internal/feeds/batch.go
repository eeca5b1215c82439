package feeds

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchAll runs fetch once per item in items, bounded to maxConcurrent
// in flight at a time, and returns one result per item in the same
// order. An item whose fetch fails yields its zero value in results
// and the error in errs at the same index — callers treat a per-item
// failure as a single source failing, not the whole batch.
func FetchAll[T any, R any](ctx context.Context, items []T, maxConcurrent int, fetch func(context.Context, T) (R, error)) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fetch(gctx, item)
			results[i] = r
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}
