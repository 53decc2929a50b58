package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docvet/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	runRepo port.RunRepository
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(runRepo port.RunRepository) *HealthHandler {
	return &HealthHandler{runRepo: runRepo}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.runRepo.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "run store not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
