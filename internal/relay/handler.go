package relay

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler exposes the relay over HTTP: the websocket upgrade and the
// health probe the dashboard polls.
type Handler struct {
	hub            *Hub
	log            zerolog.Logger
	maxMessageSize int64
	upgrader       websocket.Upgrader
}

func NewHandler(hub *Hub, logger zerolog.Logger, allowedOrigins []string, maxMessageSize int64) *Handler {
	return &Handler{
		hub:            hub,
		log:            logger,
		maxMessageSize: maxMessageSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker allows every origin when the list is empty, otherwise only
// exact matches of the Origin header.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

// ServeWs upgrades the request and hands the connection to the hub.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		log:  h.log,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// Health reports liveness and the number of joined connections, in the
// shape the dashboard already consumes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":         "OK",
		"connectedUsers": h.hub.ConnectionCount(),
	})
}
