package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"article-summarizer/config"
	"article-summarizer/domain"
	"article-summarizer/fetcher"
	"article-summarizer/pricing"
	"article-summarizer/summarizer"
)

type fakeFetcher struct {
	calls   atomic.Int32
	failing map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*domain.FetchedDocument, error) {
	f.calls.Add(1)
	if err, ok := f.failing[rawURL]; ok {
		return nil, err
	}
	html := fmt.Sprintf(
		`<html><head><title>Story at %s</title></head><body><p>Body text for %s.</p></body></html>`,
		rawURL, rawURL)
	return &domain.FetchedDocument{URL: rawURL, HTML: html}, nil
}

type fakeSummarizer struct {
	calls        atomic.Int32
	delay        time.Duration
	inputTokens  int
	outputTokens int

	mu        sync.Mutex
	lastModel string
}

func (s *fakeSummarizer) Summarize(ctx context.Context, req *summarizer.Request) (*summarizer.Result, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.lastModel = req.Model
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &summarizer.Result{
		Summary:      "Summary of " + req.Headline,
		InputTokens:  s.inputTokens,
		OutputTokens: s.outputTokens,
	}, nil
}

func newTestOrchestrator(f fetcher.DocumentFetcher, s *fakeSummarizer, timeout time.Duration) *Orchestrator {
	return NewOrchestrator(f, s, pricing.NewTable(), config.PipelineConfig{
		Concurrency:  4,
		BatchTimeout: timeout,
	}, slog.New(slog.DiscardHandler))
}

func TestOrchestrator_Run(t *testing.T) {
	t.Run("should process a batch and aggregate exact costs", func(t *testing.T) {
		f := &fakeFetcher{}
		s := &fakeSummarizer{inputTokens: 1000, outputTokens: 200}
		o := newTestOrchestrator(f, s, time.Minute)

		urls := []string{
			"https://example.com/one",
			"https://example.com/two",
			"https://example.com/three",
		}
		results, summary, err := o.Run(context.Background(), domain.BatchRequest{URLs: urls, Model: "gpt-4o-mini"})

		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, r := range results {
			assert.Equal(t, urls[i], r.URL)
			require.False(t, r.Failed(), "result %d: %s", i, r.FailureReason)
			assert.Equal(t, urls[i], r.Summary.URL)
			assert.NotEmpty(t, r.Summary.Summary)
			assert.Equal(t, domain.UnknownDate, r.Summary.PublicationDate)
			assert.Equal(t, "example.com", r.Summary.Source)
		}

		// gpt-4o-mini: 1000 in * 150 + 200 out * 600 nano-USD per token.
		const perArticleNano = int64(1000*150 + 200*600)
		assert.Equal(t, perArticleNano, results[0].Summary.CostNanoUSD)
		assert.Equal(t, 3, summary.SuccessCount)
		assert.Equal(t, 0, summary.FailureCount)
		assert.Equal(t, 3*1200, summary.TotalTokens)
		assert.Equal(t, 3*perArticleNano, summary.TotalCostNanoUSD)
	})

	t.Run("should isolate per-item failures", func(t *testing.T) {
		f := &fakeFetcher{failing: map[string]error{
			"https://example.com/bad": fmt.Errorf("%w: status 404", domain.ErrFetchFailed),
		}}
		s := &fakeSummarizer{inputTokens: 10, outputTokens: 5}
		o := newTestOrchestrator(f, s, time.Minute)

		results, summary, err := o.Run(context.Background(), domain.BatchRequest{URLs: []string{
			"https://example.com/good",
			"https://example.com/bad",
			"https://example.com/also-good",
		}})

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.False(t, results[0].Failed())
		assert.True(t, results[1].Failed())
		assert.Contains(t, results[1].FailureReason, "status 404")
		assert.False(t, results[2].Failed())
		assert.Equal(t, 2, summary.SuccessCount)
		assert.Equal(t, 1, summary.FailureCount)
	})

	t.Run("should reject an empty batch", func(t *testing.T) {
		f := &fakeFetcher{}
		o := newTestOrchestrator(f, &fakeSummarizer{}, time.Minute)

		_, _, err := o.Run(context.Background(), domain.BatchRequest{})

		assert.ErrorIs(t, err, domain.ErrEmptyBatch)
		assert.Zero(t, f.calls.Load())
	})

	t.Run("should reject more than the batch limit", func(t *testing.T) {
		f := &fakeFetcher{}
		o := newTestOrchestrator(f, &fakeSummarizer{}, time.Minute)

		urls := make([]string, domain.MaxBatchSize+1)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://example.com/%d", i)
		}
		_, _, err := o.Run(context.Background(), domain.BatchRequest{URLs: urls})

		assert.ErrorIs(t, err, domain.ErrBatchTooLarge)
		assert.Zero(t, f.calls.Load(), "no URL may be fetched when the batch is rejected")
	})

	t.Run("should reject an unknown model before fetching anything", func(t *testing.T) {
		f := &fakeFetcher{}
		o := newTestOrchestrator(f, &fakeSummarizer{}, time.Minute)

		_, _, err := o.Run(context.Background(), domain.BatchRequest{
			URLs:  []string{"https://example.com/one"},
			Model: "not-a-model",
		})

		assert.ErrorIs(t, err, domain.ErrUnknownModel)
		assert.Zero(t, f.calls.Load())
	})

	t.Run("should fall back to the default model", func(t *testing.T) {
		s := &fakeSummarizer{inputTokens: 10, outputTokens: 5}
		o := newTestOrchestrator(&fakeFetcher{}, s, time.Minute)

		results, _, err := o.Run(context.Background(), domain.BatchRequest{
			URLs: []string{"https://example.com/one"},
		})

		require.NoError(t, err)
		require.False(t, results[0].Failed())
		s.mu.Lock()
		defer s.mu.Unlock()
		assert.Equal(t, pricing.DefaultModel, s.lastModel)
	})

	t.Run("should turn deadline expiry into timeout failures", func(t *testing.T) {
		s := &fakeSummarizer{delay: 500 * time.Millisecond, inputTokens: 10, outputTokens: 5}
		o := newTestOrchestrator(&fakeFetcher{}, s, 50*time.Millisecond)

		results, summary, err := o.Run(context.Background(), domain.BatchRequest{URLs: []string{
			"https://example.com/one",
			"https://example.com/two",
		}})

		require.NoError(t, err, "a timed-out batch still returns its results")
		require.Len(t, results, 2)
		for _, r := range results {
			assert.True(t, r.Failed())
			assert.Equal(t, timeoutFailureReason, r.FailureReason)
		}
		assert.Equal(t, 2, summary.FailureCount)
	})

	t.Run("should fail items whose page has no readable text", func(t *testing.T) {
		o := newTestOrchestrator(emptyPageFetcher{}, &fakeSummarizer{}, time.Minute)

		results, summary, err := o.Run(context.Background(), domain.BatchRequest{
			URLs: []string{"https://example.com/empty"},
		})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Failed())
		assert.Contains(t, results[0].FailureReason, "no readable text")
		assert.Equal(t, 1, summary.FailureCount)
	})
}

type emptyPageFetcher struct{}

func (emptyPageFetcher) Fetch(_ context.Context, rawURL string) (*domain.FetchedDocument, error) {
	return &domain.FetchedDocument{URL: rawURL, HTML: "<html><body></body></html>"}, nil
}
