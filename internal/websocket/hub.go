package websocket

import (
	"sync"

	"topic-memory-be/internal/pkg/logger"
)

// Hub tracks connected action-feed clients per user id (multi-device: one
// user may hold several connections).
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("WebSocketHub", "Client connected", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			conns := h.clients[client.UserID]
			for i, c := range conns {
				if c == client {
					h.clients[client.UserID] = append(conns[:i], conns[i+1:]...)
					close(c.Send)
					break
				}
			}
			if len(h.clients[client.UserID]) == 0 {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocketHub", "Client disconnected", map[string]interface{}{"user_id": client.UserID})
		}
	}
}

// Send pushes a payload to every connection of one user. Slow consumers
// whose buffers are full are skipped, not waited for.
func (h *Hub) Send(userID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// Broadcast pushes a payload to every connected client.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clients {
		for _, client := range conns {
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}
