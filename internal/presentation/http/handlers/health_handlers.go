package handlers

import (
	"net/http"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/container"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/gin-gonic/gin"
)

var processStart = time.Now()

// HealthHandlers serves the liveness endpoint.
type HealthHandlers struct {
	container *container.Container
}

// NewHealthHandlers creates health handlers bound to the container
func NewHealthHandlers(container *container.Container) *HealthHandlers {
	return &HealthHandlers{container: container}
}

// GetHealth handles GET /health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	response := gin.H{
		"status":   "ok",
		"uptime":   time.Since(processStart).String(),
		"upstream": config.UpstreamBaseURL,
		"perf":     h.container.PerfTracker.Health(),
		"entries":  h.container.Cache.Stats().Entries,
	}
	if h.container.Snapshots != nil {
		response["snapshots"] = h.container.Snapshots.Backend()
	}
	c.JSON(http.StatusOK, response)
}
