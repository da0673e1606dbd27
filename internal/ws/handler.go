// Package ws streams notifications to panel clients over WebSocket.
package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/blue-environment/blued/internal/logging"
	"github.com/blue-environment/blued/internal/notify"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The API binds to loopback; origin checks add nothing there.
		return true
	},
}

const pingInterval = 30 * time.Second

// Message is one streamed notification.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Handler upgrades panel connections and feeds them the notification
// stream.
type Handler struct {
	notes *notify.Log
	log   *logging.Logger
}

// NewHandler creates a WebSocket handler over the notification log.
func NewHandler(notes *notify.Log, log *logging.Logger) *Handler {
	return &Handler{notes: notes, log: log}
}

// HandleConnection upgrades the request and streams notifications
// until the client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	feed, cancel := h.notes.Subscribe()
	defer cancel()

	// Reader goroutine: we never expect client messages, but reading
	// is what surfaces the close frame.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	for {
		select {
		case <-closed:
			return
		case <-pings.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case message := <-feed:
			if err := conn.WriteJSON(Message{Type: "notification", Message: message}); err != nil {
				return
			}
		}
	}
}
