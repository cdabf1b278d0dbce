package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billaudit/internal/charges"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	index *charges.Index
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(index *charges.Index) *HealthHandler {
	return &HealthHandler{index: index}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. An empty index is still ready (lookups
// degrade to not-found) but reported so operators can see the degradation.
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"indexed_codes": h.index.Len(),
	})
}
