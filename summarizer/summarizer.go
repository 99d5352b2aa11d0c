// Package summarizer is the Summarizer Adapter: it turns extracted article
// text into an AP-style summary via an OpenAI-compatible chat-completions
// endpoint and reports the provider's token accounting.
package summarizer

import (
	"context"
	"errors"

	"article-summarizer/domain"
)

// Request carries everything the prompt needs for one article.
type Request struct {
	Text            string
	Model           string
	Headline        string
	PublicationDate string // ISO date or domain.UnknownDate
	Source          string
}

// Result is the provider's output plus its token accounting. Token counts
// come from the API usage block, which is authoritative for billing.
type Result struct {
	Summary      string
	InputTokens  int
	OutputTokens int
}

// Summarizer generates a summary for extracted article text.
type Summarizer interface {
	Summarize(ctx context.Context, req *Request) (*Result, error)
}

// IsRetryable classifies summarization errors worth another attempt:
// provider-side failures and empty model output. Unknown models and empty
// input never succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrSummarizerUnavailable) || errors.Is(err, domain.ErrEmptySummary)
}
