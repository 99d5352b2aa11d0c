package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"article-summarizer/config"
	"article-summarizer/domain"
	"article-summarizer/extractor"
	"article-summarizer/fetcher"
	"article-summarizer/pricing"
	"article-summarizer/summarizer"
)

const timeoutFailureReason = "timeout"

// Orchestrator drives a batch through fetch, extraction, summarization and
// cost accounting. Batch-level preconditions fail the whole run; everything
// after that is isolated per item.
type Orchestrator struct {
	fetcher    fetcher.DocumentFetcher
	summarizer summarizer.Summarizer
	pricing    *pricing.Table
	cfg        config.PipelineConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewOrchestrator wires the batch pipeline.
func NewOrchestrator(f fetcher.DocumentFetcher, s summarizer.Summarizer, table *pricing.Table, cfg config.PipelineConfig, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:    f,
		summarizer: s,
		pricing:    table,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Run processes one batch. It returns an error only when the request itself
// is unprocessable (empty batch, too many URLs, unknown model); per-item
// failures are reported inside the results, which always match the input
// order one to one. The configured batch timeout bounds the whole run and
// turns unfinished items into timeout failures.
func (o *Orchestrator) Run(ctx context.Context, req domain.BatchRequest) ([]domain.ArticleResult, domain.BatchSummary, error) {
	if len(req.URLs) == 0 {
		return nil, domain.BatchSummary{}, domain.ErrEmptyBatch
	}
	if len(req.URLs) > domain.MaxBatchSize {
		return nil, domain.BatchSummary{}, fmt.Errorf("%w: got %d URLs, maximum is %d", domain.ErrBatchTooLarge, len(req.URLs), domain.MaxBatchSize)
	}

	model := req.Model
	if model == "" {
		model = pricing.DefaultModel
	}
	if !o.pricing.Known(model) {
		return nil, domain.BatchSummary{}, fmt.Errorf("%w: %q", domain.ErrUnknownModel, model)
	}

	runCtx, cancel := context.WithTimeout(ctx, o.cfg.BatchTimeout)
	defer cancel()

	start := o.now()
	o.logger.InfoContext(ctx, "batch started",
		"url_count", len(req.URLs),
		"model", model,
		"concurrency", o.cfg.Concurrency)

	outcomes := fanOut(runCtx, o.cfg.Concurrency, req.URLs, func(ctx context.Context, url string) (*domain.ArticleSummary, error) {
		return o.processArticle(ctx, url, model)
	})

	results := make([]domain.ArticleResult, len(req.URLs))
	var summary domain.BatchSummary
	for i, out := range outcomes {
		url := req.URLs[i]
		if out.Err != nil {
			reason := failureReason(out.Err)
			o.logger.WarnContext(ctx, "article failed", "url", url, "reason", reason)
			results[i] = domain.ArticleResult{URL: url, FailureReason: reason}
			summary.FailureCount++
			continue
		}
		results[i] = domain.ArticleResult{URL: url, Summary: out.Value}
		summary.SuccessCount++
		summary.TotalTokens += out.Value.TokensUsed()
		summary.TotalCostNanoUSD += out.Value.CostNanoUSD
	}

	o.logger.InfoContext(ctx, "batch finished",
		"succeeded", summary.SuccessCount,
		"failed", summary.FailureCount,
		"total_tokens", summary.TotalTokens,
		"total_cost_usd", summary.TotalCostUSD(),
		"elapsed", o.now().Sub(start).String())

	return results, summary, nil
}

// processArticle runs the full per-URL path. Any error here becomes that
// item's failure reason without touching its siblings.
func (o *Orchestrator) processArticle(ctx context.Context, url, model string) (*domain.ArticleSummary, error) {
	doc, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	text := extractor.ExtractText(doc.HTML)
	if text == "" {
		return nil, fmt.Errorf("%w: no readable text in page", domain.ErrEmptyContent)
	}

	meta := extractor.ExtractMetadata(doc)

	result, err := o.summarizer.Summarize(ctx, &summarizer.Request{
		Text:            text,
		Model:           model,
		Headline:        meta.Headline,
		PublicationDate: meta.PublicationDate,
		Source:          meta.Source,
	})
	if err != nil {
		return nil, err
	}

	cost, err := o.pricing.Cost(model, result.InputTokens, result.OutputTokens)
	if err != nil {
		return nil, err
	}

	return &domain.ArticleSummary{
		ProcessedAt:     o.now().UTC(),
		URL:             url,
		Headline:        meta.Headline,
		PublicationDate: meta.PublicationDate,
		Source:          meta.Source,
		Summary:         result.Summary,
		InputTokens:     result.InputTokens,
		OutputTokens:    result.OutputTokens,
		CostNanoUSD:     cost.NanoUSD,
	}, nil
}

// failureReason renders an item error for the API response. Deadline
// expiry collapses to a stable "timeout" marker so callers can tell
// slow batches from broken articles.
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrBatchTimeout) {
		return timeoutFailureReason
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return err.Error()
}
