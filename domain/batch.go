package domain

import (
	"time"
)

// MaxBatchSize is the upper bound on URLs accepted in one batch request.
const MaxBatchSize = 10

// Sentinel values used when extraction cannot determine a real value.
// These are legitimate outcomes, not errors.
const (
	UnknownDate      = "unknown"
	UnknownSource    = "unknown"
	UntitledHeadline = "Untitled"
)

// BatchRequest describes one summarization batch: an ordered list of
// article URLs plus processing options. Model defaults to the pricing
// table's default when empty.
type BatchRequest struct {
	URLs         []string
	Model        string
	StoreInGraph bool
	SaveToFile   bool
	OutputFormat string
}

// ArticleSummary is the success payload for one processed URL.
type ArticleSummary struct {
	ProcessedAt     time.Time
	URL             string
	Headline        string
	PublicationDate string // ISO date (2006-01-02) or UnknownDate
	Source          string // normalized registrable domain
	Summary         string
	InputTokens     int
	OutputTokens    int
	CostNanoUSD     int64
}

// TokensUsed returns the combined input and output token count.
func (s *ArticleSummary) TokensUsed() int {
	return s.InputTokens + s.OutputTokens
}

// ArticleResult is the per-URL outcome of a batch run. Exactly one of
// Summary or FailureReason is set; results are keyed by the original URL
// and ordered to match the request.
type ArticleResult struct {
	Summary       *ArticleSummary
	URL           string
	FailureReason string
}

// Failed reports whether this result is the failure variant.
func (r ArticleResult) Failed() bool {
	return r.Summary == nil
}

// BatchSummary aggregates one orchestrator run. Totals cover successful
// results only and are recomputed per run, never persisted.
type BatchSummary struct {
	TotalTokens      int
	TotalCostNanoUSD int64
	SuccessCount     int
	FailureCount     int
}

// TotalCostUSD converts the exact nano-USD total for reporting.
func (b BatchSummary) TotalCostUSD() float64 {
	return float64(b.TotalCostNanoUSD) / 1e9
}

// FetchedDocument is the raw page retrieved for a URL before extraction.
type FetchedDocument struct {
	URL  string
	HTML string
}

// ArticleMetadata holds the best-effort metadata derived from a fetched
// document. Headline and PublicationDate degrade to sentinel values;
// Source is always derived from the URL host, never from page content.
type ArticleMetadata struct {
	Headline        string
	PublicationDate string
	Source          string
}
