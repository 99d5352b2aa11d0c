package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut(t *testing.T) {
	t.Run("should preserve input order under variable latency", func(t *testing.T) {
		inputs := []int{0, 1, 2, 3, 4, 5, 6, 7}

		results := fanOut(context.Background(), 4, inputs, func(_ context.Context, n int) (string, error) {
			// Later items finish first.
			time.Sleep(time.Duration(len(inputs)-n) * time.Millisecond)
			return fmt.Sprintf("item-%d", n), nil
		})

		require.Len(t, results, len(inputs))
		for i, r := range results {
			require.NoError(t, r.Err)
			assert.Equal(t, fmt.Sprintf("item-%d", i), r.Value)
		}
	})

	t.Run("should isolate failures to their slot", func(t *testing.T) {
		errBoom := errors.New("boom")
		results := fanOut(context.Background(), 2, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
			if n == 2 {
				return 0, errBoom
			}
			return n * 10, nil
		})

		require.Len(t, results, 3)
		assert.Equal(t, 10, results[0].Value)
		assert.ErrorIs(t, results[1].Err, errBoom)
		assert.Equal(t, 30, results[2].Value)
	})

	t.Run("should bound in-flight work to the worker count", func(t *testing.T) {
		var mu sync.Mutex
		inFlight, peak := 0, 0

		inputs := make([]int, 20)
		fanOut(context.Background(), 3, inputs, func(_ context.Context, _ int) (struct{}, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return struct{}{}, nil
		})

		assert.LessOrEqual(t, peak, 3)
	})

	t.Run("should mark unstarted items with the context error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		started := make(chan struct{})
		var once sync.Once
		results := make(chan []outcome[int])
		go func() {
			results <- fanOut(ctx, 1, []int{1, 2, 3, 4}, func(ctx context.Context, n int) (int, error) {
				once.Do(func() { close(started) })
				<-ctx.Done()
				return 0, ctx.Err()
			})
		}()

		<-started
		cancel()

		got := <-results
		require.Len(t, got, 4)
		for _, r := range got {
			assert.ErrorIs(t, r.Err, context.Canceled)
		}
	})

	t.Run("should return nil for empty input", func(t *testing.T) {
		results := fanOut(context.Background(), 4, nil, func(_ context.Context, _ int) (int, error) {
			return 0, nil
		})
		assert.Nil(t, results)
	})
}
