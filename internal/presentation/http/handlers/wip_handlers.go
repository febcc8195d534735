package handlers

import (
	"net/http"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/services"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// WipHandlers serves individual work item lookups.
type WipHandlers struct {
	wipService  *services.WipService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewWipHandlers creates WIP handlers with injected dependencies
func NewWipHandlers(wipService *services.WipService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *WipHandlers {
	return &WipHandlers{
		wipService:  wipService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetDetail handles GET /api/v1/wip/:id. A malformed id is a 400 with the
// grammar in the message; an id the MES does not know is a 404.
func (h *WipHandlers) GetDetail(c *gin.Context) {
	item, err := h.wipService.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
