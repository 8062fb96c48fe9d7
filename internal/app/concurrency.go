package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartial runs every function concurrently and collects all
// results, even on partial failure. One failing function never cancels the
// others. Results are in the same order as fns.
//
// Example:
//
//	results := ParallelPartial(ctx, fetchFuncs...)
//	for _, r := range results {
//	    if r.Err != nil {
//	        // log and move on
//	    }
//	}
func ParallelPartial[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []PartialResult[T] {
	return ParallelPartialLimit(ctx, len(fns), fns...)
}

// ParallelPartialLimit is ParallelPartial with at most limit functions
// running at once. A limit below one means no limit.
func ParallelPartialLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) []PartialResult[T] {
	results := make([]PartialResult[T], len(fns))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, fn := range fns {
		g.Go(func() error {
			value, err := fn(ctx)
			results[i] = PartialResult[T]{Value: value, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
