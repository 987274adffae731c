package handlers

import (
	"net/http"
	"os"

	"casino_engine/internal/logger"
	"casino_engine/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// FeedWS upgrades the connection and streams live-feed events. The feed is
// public lobby data, so no auth is required to watch it.
func (h *Handler) FeedWS(c *gin.Context) {
	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("feed ws upgrade failed", "error", err)
		return
	}
	go ws.Serve(h.Hub, conn)
}
