package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// serviceName appears in the health envelope.
const serviceName = "GitHub Graph Analyzer API"

// HealthHandler serves the health check endpoint.
type HealthHandler struct {
	checker HealthChecker
	log     *logrus.Logger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(checker HealthChecker, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{checker: checker, log: log, version: version}
}

// Health handles GET / and reports service status. The store ping is
// best-effort: an unreachable store degrades the status field but still
// returns 200 so load balancers keep the process alive.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"

	if h.checker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.checker.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Warn("health check: graph store unreachable")
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": serviceName,
		"version": h.version,
	})
}
