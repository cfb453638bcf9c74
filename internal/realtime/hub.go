package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the wire frame pushed to a client connection.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type Client struct {
	UserID uint
	Conn   *websocket.Conn

	// guards Conn writes; gorilla allows only one concurrent writer
	writeMu sync.Mutex
}

func (c *Client) send(msg []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub tracks the active WebSocket connections per user. It is injected where
// needed rather than held as a package global so notification side effects
// stay mockable.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	if c.Conn != nil {
		_ = c.Conn.Close()
	}
}

// Push sends an event to every active connection of one user. Fire and
// forget: users with no connection simply miss the live push, the persisted
// notification row is the durable record.
func (h *Hub) Push(userID uint, event string, payload any) {
	msg, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		c.send(msg)
	}
}

// Connections reports the number of live connections for a user.
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
