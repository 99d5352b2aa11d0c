package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"article-summarizer/domain"
	"article-summarizer/pricing"
)

// SummarizeRequest is the request body for batch summarization.
type SummarizeRequest struct {
	URLs         []string `json:"urls"`
	Model        string   `json:"model"`
	StoreInGraph bool     `json:"store_in_graph"`
	SaveToFile   bool     `json:"save_to_file"`
	OutputFormat string   `json:"output_format"`
}

// ArticleResultJSON is one per-URL outcome in the response.
type ArticleResultJSON struct {
	URL             string `json:"url"`
	Status          string `json:"status"`
	Headline        string `json:"headline,omitempty"`
	PublicationDate string `json:"publication_date,omitempty"`
	Source          string `json:"source,omitempty"`
	Summary         string `json:"summary,omitempty"`
	TokensUsed      int    `json:"tokens_used,omitempty"`
	CostUSD         string `json:"cost_usd,omitempty"`
	ProcessedAt     string `json:"processed_at,omitempty"`
	Error           string `json:"error,omitempty"`
}

// BatchSummaryJSON aggregates the batch in the response.
type BatchSummaryJSON struct {
	SuccessCount int    `json:"success_count"`
	FailureCount int    `json:"failure_count"`
	TotalTokens  int    `json:"total_tokens"`
	TotalCostUSD string `json:"total_cost_usd"`
}

// SummarizeResponse is the batch response envelope. Storage and export are
// best effort; their failures surface here without failing the batch.
type SummarizeResponse struct {
	Model         string              `json:"model"`
	Results       []ArticleResultJSON `json:"results"`
	Summary       BatchSummaryJSON    `json:"summary"`
	StoredInGraph int                 `json:"stored_in_graph"`
	StoreError    string              `json:"store_error,omitempty"`
	ExportPath    string              `json:"export_path,omitempty"`
}

// SummarizeHandler handles POST /api/v1/summarize.
type SummarizeHandler struct {
	runner   BatchRunner
	store    GraphStore
	exporter ResultExporter
	usage    UsageRecorder
	logger   *slog.Logger
}

// NewSummarizeHandler creates the batch summarization handler.
func NewSummarizeHandler(runner BatchRunner, store GraphStore, exporter ResultExporter, usage UsageRecorder, logger *slog.Logger) *SummarizeHandler {
	return &SummarizeHandler{
		runner:   runner,
		store:    store,
		exporter: exporter,
		usage:    usage,
		logger:   logger,
	}
}

// HandleSummarize runs one batch end to end: summarize, record usage, then
// optionally persist to the graph and export to a file.
func (h *SummarizeHandler) HandleSummarize(c echo.Context) error {
	ctx := c.Request().Context()

	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	model := req.Model
	if model == "" {
		model = pricing.DefaultModel
	}

	results, summary, err := h.runner.Run(ctx, domain.BatchRequest{
		URLs:         req.URLs,
		Model:        req.Model,
		StoreInGraph: req.StoreInGraph,
		SaveToFile:   req.SaveToFile,
		OutputFormat: req.OutputFormat,
	})
	if err != nil {
		return err
	}

	if err := h.usage.Record(model, results); err != nil {
		h.logger.Error("failed to record token usage", "error", err)
	}

	response := SummarizeResponse{
		Model:   model,
		Results: renderResults(results),
		Summary: BatchSummaryJSON{
			SuccessCount: summary.SuccessCount,
			FailureCount: summary.FailureCount,
			TotalTokens:  summary.TotalTokens,
			TotalCostUSD: pricing.Cost{NanoUSD: summary.TotalCostNanoUSD}.String(),
		},
	}

	if req.StoreInGraph {
		stored, err := h.store.UpsertBatch(ctx, results)
		response.StoredInGraph = stored
		if err != nil {
			h.logger.Error("graph storage failed", "error", err, "stored", stored)
			response.StoreError = err.Error()
		}
	}

	if req.SaveToFile {
		path, err := h.exporter.Save(results, req.OutputFormat)
		if err != nil {
			h.logger.Error("export failed", "error", err)
		} else {
			response.ExportPath = path
		}
	}

	return c.JSON(http.StatusOK, response)
}

func renderResults(results []domain.ArticleResult) []ArticleResultJSON {
	out := make([]ArticleResultJSON, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			out = append(out, ArticleResultJSON{
				URL:    r.URL,
				Status: "failed",
				Error:  r.FailureReason,
			})
			continue
		}
		s := r.Summary
		out = append(out, ArticleResultJSON{
			URL:             r.URL,
			Status:          "ok",
			Headline:        s.Headline,
			PublicationDate: s.PublicationDate,
			Source:          s.Source,
			Summary:         s.Summary,
			TokensUsed:      s.TokensUsed(),
			CostUSD:         pricing.Cost{NanoUSD: s.CostNanoUSD}.String(),
			ProcessedAt:     s.ProcessedAt.Format(time.RFC3339),
		})
	}
	return out
}
