// ABOUTME: Centralized error handling middleware for Echo framework
// ABOUTME: Maps domain errors to HTTP statuses and hides internal details
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"article-summarizer/domain"
	"article-summarizer/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// CustomHTTPErrorHandler creates the centralized HTTP error handler.
// Domain precondition errors become 400s with their real message; unknown
// errors become a generic 500 so internals never leak to clients.
func CustomHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		requestID := logger.RequestIDFrom(ctx)

		status := http.StatusInternalServerError
		message := "An unexpected error occurred. Please try again later."

		var httpErr *echo.HTTPError
		switch {
		case errors.Is(err, domain.ErrEmptyBatch),
			errors.Is(err, domain.ErrBatchTooLarge),
			errors.Is(err, domain.ErrUnknownModel):
			status = http.StatusBadRequest
			message = err.Error()

		case errors.Is(err, domain.ErrStoreUnavailable):
			status = http.StatusServiceUnavailable
			message = domain.ErrStoreUnavailable.Error()

		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok && status < http.StatusInternalServerError {
				message = m
			}
		}

		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "request failed", "request_id", requestID, "status", status, "error", err)
		} else {
			log.WarnContext(ctx, "request rejected", "request_id", requestID, "status", status, "error", err)
		}

		if err := c.JSON(status, errorResponse{Error: message}); err != nil {
			log.ErrorContext(ctx, "failed to send error response", "request_id", requestID, "error", err)
		}
	}
}
