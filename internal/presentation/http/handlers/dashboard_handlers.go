package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/services"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/gin-gonic/gin"
)

// DashboardHandlers serves the KPI summary, the composite page, and the
// live SSE feed.
type DashboardHandlers struct {
	dashboardService *services.DashboardService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewDashboardHandlers creates dashboard handlers with injected dependencies
func NewDashboardHandlers(dashboardService *services.DashboardService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DashboardHandlers {
	return &DashboardHandlers{
		dashboardService: dashboardService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetSummary handles GET /api/v1/dashboard/summary?date=
func (h *DashboardHandlers) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPage handles GET /api/v1/dashboard/page?date= - the composite view.
// Constituent failures surface in the payload's is_error/error fields, not
// as an HTTP error, so the dashboard can render whatever loaded.
func (h *DashboardHandlers) GetPage(c *gin.Context) {
	page := h.dashboardService.Page(c.Request.Context(), c.Query("date"))
	c.JSON(http.StatusOK, page)
}

// PostPageRefresh handles POST /api/v1/dashboard/page/refresh?date=
func (h *DashboardHandlers) PostPageRefresh(c *gin.Context) {
	page := h.dashboardService.RefreshPage(c.Request.Context(), c.Query("date"))
	c.JSON(http.StatusOK, page)
}

// StreamDashboard handles GET /api/v1/dashboard/stream?date= - an SSE feed
// of summary snapshots. Attaching starts the summary's interval refresh;
// the last consumer detaching stops it.
func (h *DashboardHandlers) StreamDashboard(c *gin.Context) {
	date := services.NormalizeDate(c.Query("date"))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Prime the entry so the watcher has a policy and fetch to refresh with.
	if _, err := h.dashboardService.Summary(c.Request.Context(), date); err != nil {
		h.logger.SSE().Warn("Dashboard stream primed with error", "date", date, "error", err)
	}

	updates, detach := h.dashboardService.WatchSummary(date)
	defer detach()

	h.logger.SSE().Info("Dashboard stream attached", "date", date)
	defer h.logger.SSE().Info("Dashboard stream detached", "date", date)

	fmt.Fprintf(c.Writer, ": connection established\n\n")
	if snap, ok := h.dashboardService.SummarySnapshot(date); ok {
		writeSnapshotEvent(c.Writer, snap)
	}
	c.Writer.Flush()

	heartbeat := time.NewTicker(config.SSEHeartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-updates:
			if !ok {
				return false
			}
			writeSnapshotEvent(w, snap)
			return true
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func writeSnapshotEvent(w io.Writer, snap any) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
}
