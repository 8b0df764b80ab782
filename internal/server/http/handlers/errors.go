package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
	"github.com/polkiloo/posledger/internal/server/http/dto"
	"github.com/polkiloo/posledger/internal/server/http/middleware"
)

// respondError maps domain failures onto status codes. Only store
// failures are logged; client errors are echoed back verbatim.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case domainErrors.IsValidation(err):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domainErrors.ErrNotFound):
		status, message = http.StatusNotFound, "order not found"
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusServiceUnavailable, "request timed out"
		logger.Warn("request timed out",
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", middleware.RequestID(c)))
	default:
		logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", middleware.RequestID(c)),
			slog.String("error", err.Error()))
	}

	c.AbortWithStatusJSON(status, dto.Envelope{Success: false, Message: message})
}
