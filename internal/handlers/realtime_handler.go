package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/realtime"
)

type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, clientURL string) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == clientURL
			},
		},
	}
}

// Connect upgrades the request and parks the connection on the hub. The read
// loop only consumes control frames; all traffic is server to client.
func (h *RealtimeHandler) Connect(c *gin.Context) {
	user := middleware.CurrentUser(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &realtime.Client{UserID: user.ID, Conn: conn}
	h.hub.Register(client)

	go func() {
		defer h.hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
