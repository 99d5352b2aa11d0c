package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports service liveness and graph connectivity.
type HealthHandler struct {
	store  GraphStore
	logger *slog.Logger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(store GraphStore, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// HandleHealth handles GET /api/v1/health. The service stays healthy when
// the graph is down; storage is optional per request.
func (h *HealthHandler) HandleHealth(c echo.Context) error {
	ctx := c.Request().Context()

	graphStatus := "connected"
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("graph health check failed", "error", err)
		graphStatus = "disconnected"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"graph":  graphStatus,
	})
}
