package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/container"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/query"
	"github.com/gin-gonic/gin"
)

// OpsHandlers exposes the operational surface: cache introspection,
// invalidation, live log streaming, and activity metrics.
type OpsHandlers struct {
	container *container.Container
}

// NewOpsHandlers creates ops handlers bound to the container
func NewOpsHandlers(container *container.Container) *OpsHandlers {
	return &OpsHandlers{container: container}
}

// GetCacheStats handles GET /api/v1/ops/cache/stats
func (h *OpsHandlers) GetCacheStats(c *gin.Context) {
	response := gin.H{
		"cache":   h.container.Cache.Stats(),
		"entries": h.container.Cache.Entries(),
	}

	if h.container.Snapshots != nil {
		if count, err := h.container.Snapshots.Count(c.Request.Context()); err == nil {
			response["snapshots"] = gin.H{
				"backend": h.container.Snapshots.Backend(),
				"rows":    count,
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// PostCacheInvalidate handles POST /api/v1/ops/cache/invalidate. The prefix
// is structural: ["lots"] removes every lot list variant, ["lots","list",
// "all","20","created_at"] exactly one entry.
func (h *OpsHandlers) PostCacheInvalidate(c *gin.Context) {
	var req struct {
		Prefix []string `json:"prefix" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prefix array is required"})
		return
	}

	prefix := query.NewKey(req.Prefix...)
	removed := h.container.Cache.Invalidate(prefix)

	h.container.Logger.Cache().Info("Ops invalidation", "prefix", prefix.String(), "removed", removed, "requestId", c.GetString("requestId"))
	c.JSON(http.StatusOK, gin.H{"prefix": prefix.String(), "removed": removed})
}

// GetActivity handles GET /api/v1/ops/activity - live performance metrics.
func (h *OpsHandlers) GetActivity(c *gin.Context) {
	perf := h.container.PerfTracker
	c.JSON(http.StatusOK, gin.H{
		"health": perf.Health(),
		"active": perf.GetActiveOperations(),
		"recent": perf.GetRecentMetrics(15 * time.Minute),
		"alerts": perf.GetAlerts(),
		"stats":  perf.GetOverallStats(),
	})
}

// StreamLogs handles the SSE connection for live log streaming.
func (h *OpsHandlers) StreamLogs(c *gin.Context) {
	broadcaster := logging.GetBroadcaster()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	channelFilter := c.DefaultQuery("channel", "all")
	levelFilter := c.DefaultQuery("level", "INFO")
	var logLevel slog.Level
	switch levelFilter {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "INFO":
		logLevel = slog.LevelInfo
	case "WARN":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	filters := logging.AppliedFilters{
		Channel: logging.Channel(channelFilter),
		Level:   logLevel,
	}

	client := broadcaster.NewClient(filters)
	broadcaster.RegisterClient(client)
	defer broadcaster.UnregisterClient(client)

	fmt.Fprintf(c.Writer, ": connection established\n\n")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client.Channel:
			if !ok {
				return false
			}
			fmt.Fprintf(w, "data: %s\n\n", message)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// GetLogLevels handles GET /api/v1/ops/logs/levels - current channel levels.
func (h *OpsHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, h.container.Logger.GetChannelLevels())
}

// SetLogLevel handles POST /api/v1/ops/logs/levels - adjusts one channel.
func (h *OpsHandlers) SetLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	var level slog.Level
	switch req.Level {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level, want DEBUG, INFO, WARN, or ERROR"})
		return
	}

	if err := h.container.Logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": req.Channel, "level": req.Level})
}
