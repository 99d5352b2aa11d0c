package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"article-summarizer/pricing"
)

// ModelsHandler serves the model discovery endpoint.
type ModelsHandler struct {
	table *pricing.Table
}

// NewModelsHandler creates the models handler.
func NewModelsHandler(table *pricing.Table) *ModelsHandler {
	return &ModelsHandler{table: table}
}

// HandleGetModels handles GET /api/v1/models, listing every model the
// service can price along with the default.
func (h *ModelsHandler) HandleGetModels(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"models":  h.table.Models(),
		"default": pricing.DefaultModel,
	})
}
