package concurrent

import (
	"context"
	"sync"
)

// ParallelMap executes a function on each item in parallel, preserving the
// input order in the results. Individual errors never abort the batch; each
// slot carries its own result or error.
func ParallelMap[T, R any](ctx context.Context, items []T, fn func(T) (R, error), maxConcurrency int) ([]R, []error) {
	if len(items) == 0 {
		return nil, nil
	}

	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}

	results := make([]R, len(items))
	errors := make([]error, len(items))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrency)

	for i, item := range items {
		wg.Add(1)
		go func(idx int, val T) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errors[idx] = err
				return
			}

			select {
			case <-ctx.Done():
				errors[idx] = ctx.Err()
				return
			case sem <- struct{}{}:
				defer func() { <-sem }()
				results[idx], errors[idx] = fn(val)
			}
		}(i, item)
	}

	wg.Wait()

	return results, errors
}
