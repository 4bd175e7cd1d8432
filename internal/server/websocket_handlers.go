package server

import (
	"context"
	"errors"

	"inkwell/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles GET /api/ws. Clients receive their own
// notifications (new followers, comments and likes on their articles) and
// send nothing but control frames.
func (s *Server) WebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)
		if userID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		s.consumeWSTicket(context.Background(), conn.Locals("wsTicket"))

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			msg := `{"error":"server busy"}`
			if errors.Is(err, notifications.ErrUserFull) {
				msg = `{"error":"too many connections"}`
			}
			_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
