// ABOUTME: Domain-level sentinel errors for the article summarizer service
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

// Batch precondition errors. These abort a batch before any fetching
// begins, since no item could succeed.
var (
	// ErrEmptyBatch indicates the request carried no URLs
	ErrEmptyBatch = errors.New("batch contains no URLs")

	// ErrBatchTooLarge indicates the request exceeded MaxBatchSize URLs
	ErrBatchTooLarge = errors.New("batch exceeds maximum URL count")

	// ErrUnknownModel indicates the model identifier has no pricing entry
	ErrUnknownModel = errors.New("unknown model identifier")
)

// Per-item errors. These are captured into a Failure result and never
// abort the rest of the batch.
var (
	// ErrInvalidURL indicates the URL is malformed or uses a forbidden scheme/target
	ErrInvalidURL = errors.New("invalid URL")

	// ErrFetchFailed indicates the document could not be retrieved
	ErrFetchFailed = errors.New("article fetch failed")

	// ErrEmptyContent indicates extraction produced no summarizable text
	ErrEmptyContent = errors.New("extracted content is empty")

	// ErrEmptySummary indicates the model returned empty output after retries
	ErrEmptySummary = errors.New("model returned an empty summary")

	// ErrSummarizerUnavailable indicates the summarization provider is not reachable
	// or returned a server-side failure
	ErrSummarizerUnavailable = errors.New("summarizer service unavailable")

	// ErrBatchTimeout indicates the batch deadline elapsed before the item completed
	ErrBatchTimeout = errors.New("batch deadline exceeded")
)

// Storage errors
var (
	// ErrStoreUnavailable indicates the graph database is unreachable or a
	// transaction failed. Summarization results are never rolled back
	// because of it; callers report it and move on.
	ErrStoreUnavailable = errors.New("graph store unavailable")
)
