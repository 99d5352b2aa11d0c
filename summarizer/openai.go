package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"article-summarizer/config"
	"article-summarizer/domain"
	"article-summarizer/retry"
)

const systemPrompt = `Style: Write in AP style. Be concise, factual, and avoid opinion or interpretation.

Length: Summaries must be 3 paragraphs. Each paragraph should be 2-4 sentences. Each summary must begin with the article's published date in AP date format (e.g., Feb. 21, 2025) when the date is known.

Tone: Neutral and professional. Do not insert analysis, speculation, or commentary.

Content: Capture the main developments, essential context, and key quotes or statistics if available. Avoid minor details or redundancy.

Headline: Use the exact headline provided in the prompt for the article and place it at the top of the summary.

Sources: At the end of every summary, include a source line crediting the publisher.
- Use the exact source provided in the prompt.
- Do not invent sources. Do not omit sources.
- Always output in plain text, not markdown or hyperlinks.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         float64       `json:"temperature"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// openAIClient calls an OpenAI-compatible chat-completions API. Empty model
// output is retried with backoff before the item fails.
type openAIClient struct {
	cfg     config.SummarizerConfig
	client  *http.Client
	retrier *retry.Retrier
	logger  *slog.Logger
}

// NewOpenAIClient creates the production summarizer.
func NewOpenAIClient(cfg *config.Config, logger *slog.Logger) Summarizer {
	return NewOpenAIClientWith(cfg.Summarizer, &http.Client{Timeout: cfg.Summarizer.Timeout}, logger)
}

// NewOpenAIClientWith creates a summarizer with a custom HTTP client.
func NewOpenAIClientWith(cfg config.SummarizerConfig, client *http.Client, logger *slog.Logger) Summarizer {
	retrier := retry.NewRetrier(retry.Config{
		MaxAttempts:   cfg.MaxRetries + 1,
		BaseDelay:     time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}, IsRetryable, logger)

	return &openAIClient{
		cfg:     cfg,
		client:  client,
		retrier: retrier,
		logger:  logger,
	}
}

// Summarize generates the summary, retrying provider failures and empty
// output up to the configured attempt budget.
func (c *openAIClient) Summarize(ctx context.Context, req *Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, domain.ErrEmptyContent
	}

	var result *Result
	err := c.retrier.Do(ctx, func() error {
		r, err := c.complete(ctx, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *openAIClient) complete(ctx context.Context, req *Request) (*Result, error) {
	payload := chatPayload{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
		Temperature:         c.cfg.Temperature,
		MaxCompletionTokens: c.cfg.MaxCompletionTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	apiURL := c.cfg.Host + c.cfg.APIPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.DebugContext(ctx, "requesting completion", "api_url", apiURL, "model", req.Model)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSummarizerUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrSummarizerUnavailable, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("parse API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyFailure(resp.StatusCode, &parsed)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contained no choices", domain.ErrEmptySummary)
	}

	summary := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if summary == "" {
		return nil, domain.ErrEmptySummary
	}

	c.logger.InfoContext(ctx, "summary generated",
		"model", req.Model,
		"summary_length", len(summary),
		"prompt_tokens", parsed.Usage.PromptTokens,
		"completion_tokens", parsed.Usage.CompletionTokens)

	return &Result{
		Summary:      summary,
		InputTokens:  parsed.Usage.PromptTokens,
		OutputTokens: parsed.Usage.CompletionTokens,
	}, nil
}

// classifyFailure maps provider error responses onto domain sentinels.
func (c *openAIClient) classifyFailure(status int, parsed *chatResponse) error {
	message := http.StatusText(status)
	code := ""
	if parsed.Error != nil {
		message = parsed.Error.Message
		code = parsed.Error.Code
	}

	if code == "model_not_found" || status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrUnknownModel, message)
	}
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d: %s", domain.ErrSummarizerUnavailable, status, message)
	}
	return fmt.Errorf("summarization request rejected: status %d: %s", status, message)
}

// userPrompt builds the per-article instruction, mirroring the system
// prompt's date/headline/source requirements.
func userPrompt(req *Request) string {
	var b strings.Builder
	b.WriteString("Summarize the following article in 3 concise paragraphs under 250 words. ")
	if req.PublicationDate != "" && req.PublicationDate != domain.UnknownDate {
		fmt.Fprintf(&b, "The summary must begin with the publication date: %s, ", apDate(req.PublicationDate))
	} else {
		b.WriteString("The publication date is unknown; do not invent one. ")
	}
	fmt.Fprintf(&b, "include the headline at the top: %s, ", req.Headline)
	fmt.Fprintf(&b, "and a source line crediting: %s\n\n%s", req.Source, req.Text)
	return b.String()
}

// apDate renders an ISO date in AP wire format, e.g. "Feb. 21, 2025".
// Unparseable input is passed through unchanged.
func apDate(iso string) string {
	parsed, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return parsed.Format("Jan. 2, 2006")
}
