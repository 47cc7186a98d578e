package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	generationBackend string
	storeBackend      string
}

func NewHealthHandler(generationBackend, storeBackend string) *HealthHandler {
	return &HealthHandler{
		generationBackend: generationBackend,
		storeBackend:      storeBackend,
	}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"generation_backend": h.generationBackend,
		"store_backend":      h.storeBackend,
	})
}
