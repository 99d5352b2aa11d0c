// Package pipeline runs one summarization batch: per-URL
// fetch -> extract -> summarize -> cost, with bounded fan-out, per-item
// failure isolation, and a batch-wide deadline.
package pipeline

import (
	"context"
	"sync"
)

// outcome wraps one item's output with its error, slotted back into the
// input position.
type outcome[Out any] struct {
	Value Out
	Err   error
}

// fanOut executes process over all inputs with at most workers in flight.
// Results are assembled positionally, so the output order always matches
// the input order regardless of completion order. Items that cannot start
// or finish before ctx is done carry the context error.
func fanOut[In, Out any](ctx context.Context, workers int, inputs []In, process func(ctx context.Context, input In) (Out, error)) []outcome[Out] {
	if len(inputs) == 0 {
		return nil
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]outcome[Out], len(inputs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(idx int, in In) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = outcome[Out]{Err: ctx.Err()}
				return
			}

			if err := ctx.Err(); err != nil {
				results[idx] = outcome[Out]{Err: err}
				return
			}

			out, err := process(ctx, in)
			results[idx] = outcome[Out]{Value: out, Err: err}
		}(i, input)
	}

	wg.Wait()
	return results
}
