package handlers

import (
	"net/http"
	"strconv"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/services"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// ProcessHandlers serves per-process WIP counts and cycle times.
type ProcessHandlers struct {
	processService *services.ProcessService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewProcessHandlers creates process handlers with injected dependencies
func NewProcessHandlers(processService *services.ProcessService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProcessHandlers {
	return &ProcessHandlers{
		processService: processService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetWipCounts handles GET /api/v1/processes/wip
func (h *ProcessHandlers) GetWipCounts(c *gin.Context) {
	counts, err := h.processService.WipCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GetCycleTimes handles GET /api/v1/processes/cycle-times?days=
func (h *ProcessHandlers) GetCycleTimes(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = parsed
	}

	times, err := h.processService.CycleTimes(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, times)
}
