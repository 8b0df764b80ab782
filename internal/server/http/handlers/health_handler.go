package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports store reachability.
type HealthHandler struct {
	checker HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(checker HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.checker.HealthCheck(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
