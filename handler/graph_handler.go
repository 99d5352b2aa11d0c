package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"article-summarizer/domain"
)

// ArticleQueryRequest is the body of POST /api/v1/articles/query.
type ArticleQueryRequest struct {
	Source   string `json:"source"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Limit    int    `json:"limit"`
}

// GraphHandler serves reads over the stored article graph.
type GraphHandler struct {
	store  GraphStore
	logger *slog.Logger
}

// NewGraphHandler creates the graph read handler.
func NewGraphHandler(store GraphStore, logger *slog.Logger) *GraphHandler {
	return &GraphHandler{store: store, logger: logger}
}

// HandleGetArticles handles GET /api/v1/articles with optional source,
// date_from, date_to and limit query parameters.
func (h *GraphHandler) HandleGetArticles(c echo.Context) error {
	query := domain.ArticleQuery{
		Source:   c.QueryParam("source"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		query.Limit = limit
	}

	return h.respondArticles(c, query)
}

// HandleQueryArticles handles POST /api/v1/articles/query with the same
// filters in a JSON body.
func (h *GraphHandler) HandleQueryArticles(c echo.Context) error {
	var req ArticleQueryRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("failed to bind article query", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Limit < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
	}

	return h.respondArticles(c, domain.ArticleQuery{
		Source:   req.Source,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Limit:    req.Limit,
	})
}

func (h *GraphHandler) respondArticles(c echo.Context, query domain.ArticleQuery) error {
	ctx := c.Request().Context()

	articles, err := h.store.GetArticles(ctx, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"articles": articles,
		"count":    len(articles),
	})
}

// HandleGetSources handles GET /api/v1/sources.
func (h *GraphHandler) HandleGetSources(c echo.Context) error {
	ctx := c.Request().Context()

	sources, err := h.store.GetSources(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"sources": sources,
		"count":   len(sources),
	})
}

// HandleGetStatistics handles GET /api/v1/statistics.
func (h *GraphHandler) HandleGetStatistics(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.store.GetStatistics(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
