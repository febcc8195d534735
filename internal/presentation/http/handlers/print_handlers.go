package handlers

import (
	"net/http"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/services"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// PrintHandlers serves label print requests.
type PrintHandlers struct {
	printService *services.PrintService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewPrintHandlers creates print handlers with injected dependencies
func NewPrintHandlers(printService *services.PrintService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PrintHandlers {
	return &PrintHandlers{
		printService: printService,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// PostPrintLabel handles POST /api/v1/labels/print
func (h *PrintHandlers) PostPrintLabel(c *gin.Context) {
	var req services.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.printService.PrintLabel(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "wip_id": req.WipID})
}
