// Package handler exposes the REST surface: batch summarization, graph
// reads, model discovery, and health.
package handler

import (
	"context"

	"article-summarizer/domain"
)

// BatchRunner runs one summarization batch.
type BatchRunner interface {
	Run(ctx context.Context, req domain.BatchRequest) ([]domain.ArticleResult, domain.BatchSummary, error)
}

// GraphStore is the persistence surface the handlers depend on.
type GraphStore interface {
	Ping(ctx context.Context) error
	UpsertBatch(ctx context.Context, results []domain.ArticleResult) (int, error)
	GetArticles(ctx context.Context, q domain.ArticleQuery) ([]domain.ArticleRecord, error)
	GetSources(ctx context.Context) ([]domain.SourceCount, error)
	GetStatistics(ctx context.Context) (domain.Statistics, error)
}

// ResultExporter saves batch results to a file.
type ResultExporter interface {
	Save(results []domain.ArticleResult, format string) (string, error)
}

// UsageRecorder appends token usage rows for a finished batch.
type UsageRecorder interface {
	Record(model string, results []domain.ArticleResult) error
}
