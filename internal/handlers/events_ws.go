package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/moodler-app/backend/internal/middleware"
	"github.com/moodler-app/backend/internal/services"
)

type EventsHandler struct {
	hub      *services.EventHub
	upgrader websocket.Upgrader
}

func NewEventsHandler(hub *services.EventHub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS layer; the token already gates access.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Journal upgrades to a WebSocket and streams the caller's journal events
// until the client disconnects. Auth runs in middleware before the upgrade,
// with the token taken from the query string since browsers cannot set
// headers on WebSocket dials.
func (h *EventsHandler) Journal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Events] websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(userID.String(), conn)
	defer func() {
		h.hub.Unregister(userID.String(), conn)
		conn.Close()
	}()

	conn.SetReadLimit(1024)

	// Clients never send payloads; the read loop exists to detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
