package handlers

import (
	"net/http"
	"strconv"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/services"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// LotHandlers serves the lot list.
type LotHandlers struct {
	lotService  *services.LotService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewLotHandlers creates lot handlers with injected dependencies
func NewLotHandlers(lotService *services.LotService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LotHandlers {
	return &LotHandlers{
		lotService:  lotService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetLots handles GET /api/v1/lots?status=&limit=&sort=
func (h *LotHandlers) GetLots(c *gin.Context) {
	opts := services.LotOptions{
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		opts.Limit = limit
	}

	page, err := h.lotService.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
