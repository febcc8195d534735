package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/events"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// ToastMessage is the wire form a toast takes on its way to dashboard
// clients. Duration travels as milliseconds for the frontend timer.
type ToastMessage struct {
	ID         string    `json:"id"`
	Level      string    `json:"level"`
	Message    string    `json:"message"`
	DurationMs int64     `json:"durationMs"`
	EmittedAt  time.Time `json:"emittedAt"`
}

// WSClient represents a single connected dashboard client.
type WSClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// NewWSClient wraps an upgraded connection with its outbound queue.
func NewWSClient(conn *websocket.Conn) *WSClient {
	return &WSClient{Conn: conn, Send: make(chan []byte, 16)}
}

// WSBridge subscribes to the toast bus and fans emissions out to every
// connected websocket client. The run loop owns the client set, so
// registration, removal, and broadcast never race.
type WSBridge struct {
	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan []byte
	logger     *logging.ChanneledLogger
	detach     func()
}

// NewWSBridge creates the bridge and attaches it to the bus.
func NewWSBridge(bus *Bus, logger *logging.ChanneledLogger) *WSBridge {
	b := &WSBridge{
		clients:    make(map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
	}
	b.detach = bus.Subscribe(b.onToast)
	return b
}

// onToast runs on the emitter's goroutine, so it only marshals and queues.
func (b *WSBridge) onToast(toast events.Toast) {
	message, err := json.Marshal(ToastMessage{
		ID:         toast.ID,
		Level:      string(toast.Level),
		Message:    toast.Message,
		DurationMs: toast.Duration.Milliseconds(),
		EmittedAt:  toast.EmittedAt,
	})
	if err != nil {
		b.logger.Notify().Error("Toast marshal failed", "id", toast.ID, "error", err)
		return
	}

	select {
	case b.broadcast <- message:
	default:
		b.logger.Notify().Warn("Toast broadcast queue full, dropping", "id", toast.ID)
	}
}

// Run starts the bridge's main loop. This should be run as a goroutine.
func (b *WSBridge) Run(ctx context.Context) {
	defer b.detach()

	for {
		select {
		case <-ctx.Done():
			for client := range b.clients {
				close(client.Send)
			}
			return

		case client := <-b.register:
			b.clients[client] = true
			b.logger.Notify().Info("Notification client connected", "clients", len(b.clients))

		case client := <-b.unregister:
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.logger.Notify().Info("Notification client disconnected", "clients", len(b.clients))

		case message := <-b.broadcast:
			for client := range b.clients {
				select {
				case client.Send <- message:
				default:
				}
			}
		}
	}
}

// Register queues a client for registration.
func (b *WSBridge) Register(client *WSClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *WSBridge) Unregister(client *WSClient) {
	b.unregister <- client
}

// WritePump drains the client's send queue onto the wire and keeps the
// connection alive with pings. It returns when the queue closes or a write
// fails.
func (c *WSClient) WritePump(heartbeat time.Duration) {
	ticker := time.NewTicker(heartbeat)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump discards inbound frames; the notification socket is one-way.
// It returns when the client hangs up, which drives unregistration.
func (c *WSClient) ReadPump(bridge *WSBridge) {
	defer func() {
		bridge.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
