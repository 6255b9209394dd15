package handler

import (
	ws "topic-memory-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ActionFeedHandler exposes the live action feed over websocket.
type ActionFeedHandler struct {
	hub *ws.Hub
}

func NewActionFeedHandler(hub *ws.Hub) *ActionFeedHandler {
	return &ActionFeedHandler{hub: hub}
}

func (h *ActionFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws/actions/:user_id", websocket.New(func(conn *websocket.Conn) {
		userID := conn.Params("user_id")
		ws.ServeWs(h.hub, conn, userID)
	}))
}
