package handlers

import (
	"net/http"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/notifications"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser dashboard runs on a different origin in development;
	// CORS on the API group does not cover websocket upgrades.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandlers serves the websocket toast feed.
type WSHandlers struct {
	bridge *notifications.WSBridge
	logger *logging.ChanneledLogger
}

// NewWSHandlers creates websocket handlers with injected dependencies
func NewWSHandlers(bridge *notifications.WSBridge, logger *logging.ChanneledLogger) *WSHandlers {
	return &WSHandlers{
		bridge: bridge,
		logger: logger,
	}
}

// GetNotifications handles GET /ws/notifications - upgrades and attaches
// the connection to the toast bridge until the peer goes away.
func (h *WSHandlers) GetNotifications(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Notify().Warn("Websocket upgrade failed", "error", err.Error(), "remote", c.ClientIP())
		return
	}

	client := notifications.NewWSClient(conn)
	h.bridge.Register(client)

	go client.WritePump(config.SSEHeartbeatInterval)
	client.ReadPump(h.bridge)
}
