package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"chat-relay/internal/history"
)

const storeTimeout = 3 * time.Second

// Hub is the relay's event loop. It owns the registry and the room index and
// is the only goroutine that mutates them, so dispatch needs no further
// coordination. Clients feed it through channels.
type Hub struct {
	registry *Registry
	rooms    *roomIndex
	store    history.Store
	log      zerolog.Logger
	validate *validator.Validate

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame

	// clients covers every open connection, joined or not.
	clients map[string]*Client
}

type inboundFrame struct {
	client *Client
	frame  []byte
}

func NewHub(store history.Store, logger zerolog.Logger) *Hub {
	return &Hub{
		registry:   NewRegistry(),
		rooms:      newRoomIndex(),
		store:      store,
		log:        logger,
		validate:   validator.New(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame),
		clients:    make(map[string]*Client),
	}
}

// Run processes registrations, disconnects, and inbound frames until the
// context is cancelled. Call it in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case in := <-h.inbound:
			h.dispatch(in.client, in.frame)
		}
	}
}

// ConnectionCount reports how many connections have joined a room, for the
// health endpoint. The source of truth is the registry, so a socket that
// never sent join-chat is not counted.
func (h *Hub) ConnectionCount() int {
	return h.registry.Count()
}

func (h *Hub) addClient(c *Client) {
	h.clients[c.id] = c
	h.log.Debug().Str("conn", c.id).Msg("connection opened")
}

func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	if sess, ok := h.registry.Lookup(c.id); ok {
		h.rooms.unsubscribe(sess.RoomID, c.id)
		h.registry.Unregister(c.id)
		h.log.Info().Str("user", sess.Identity).Str("room", sess.RoomID).Msg("user disconnected")
	}
	close(c.send)
}

// dispatch interprets one inbound frame. Anything malformed or out of state
// is dropped without touching the connection: real-time clients race joins
// and messages, and punishing them with a disconnect helps nobody.
func (h *Hub) dispatch(c *Client, frame []byte) {
	// Frames can still be in flight from a connection the hub already
	// removed (e.g. dropped as a slow client); its send channel is closed,
	// so those frames must not reach a handler.
	if _, ok := h.clients[c.id]; !ok {
		return
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		h.log.Debug().Str("conn", c.id).Err(err).Msg("dropping unparseable frame")
		return
	}

	switch env.Event {
	case EventJoinChat:
		h.handleJoin(c, env.Data)
	case EventMessage:
		h.handleMessage(c, env.Data)
	case EventTyping:
		h.handleTyping(c, env.Data)
	case EventGetMessages:
		h.handleGetMessages(c, env.Data)
	default:
		h.log.Debug().Str("conn", c.id).Str("event", env.Event).Msg("dropping unknown event")
	}
}

func (h *Hub) handleJoin(c *Client, data json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if err := h.validate.Struct(p); err != nil {
		h.log.Debug().Str("conn", c.id).Msg("dropping join with missing identity")
		return
	}

	roomID := RoomID(p.CurrentUserID, p.OtherUserID)
	if prev, ok := h.registry.Lookup(c.id); ok && prev.RoomID != roomID {
		h.rooms.unsubscribe(prev.RoomID, c.id)
	}
	h.registry.Register(c.id, p.CurrentUserID, roomID)
	h.rooms.subscribe(roomID, c)
	h.log.Info().Str("user", p.CurrentUserID).Str("room", roomID).Msg("user joined room")
}

func (h *Hub) handleMessage(c *Client, data json.RawMessage) {
	sess, ok := h.registry.Lookup(c.id)
	if !ok {
		return
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return
	}
	if body == nil {
		body = make(map[string]any)
	}
	// The server is the single source of truth for time; whatever the
	// client sent is overwritten.
	body["timestamp"] = time.Now().UTC()

	payload, err := json.Marshal(body)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	if err := h.store.Append(ctx, sess.RoomID, payload); err != nil {
		h.log.Error().Str("room", sess.RoomID).Err(err).Msg("history append failed")
	}
	cancel()

	frame, err := json.Marshal(Envelope{Event: EventMessage, Data: payload})
	if err != nil {
		return
	}

	// Message broadcasts include the sender; clients reconcile the echo
	// against their optimistic copy by message id.
	h.broadcastToRoom(sess.RoomID, frame, "")
}

func (h *Hub) handleTyping(c *Client, data json.RawMessage) {
	sess, ok := h.registry.Lookup(c.id)
	if !ok {
		return
	}

	var p TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if err := h.validate.Struct(p); err != nil {
		return
	}

	frame, err := encodeEvent(EventUserTyping, TypingBroadcast{UserID: p.UserID, IsTyping: p.IsTyping})
	if err != nil {
		return
	}
	// Typing goes to everyone except the sender, unlike messages.
	h.broadcastToRoom(sess.RoomID, frame, c.id)
}

func (h *Hub) handleGetMessages(c *Client, data json.RawMessage) {
	var p JoinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if err := h.validate.Struct(p); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	msgs, err := h.store.Recent(ctx, RoomID(p.CurrentUserID, p.OtherUserID))
	if err != nil {
		h.log.Error().Err(err).Msg("history fetch failed")
		msgs = nil
	}
	if msgs == nil {
		msgs = []json.RawMessage{}
	}

	frame, err := encodeEvent(EventPreviousMessages, msgs)
	if err != nil {
		return
	}
	// History is a unicast reply to the requester, never a broadcast.
	if !c.queue(frame) {
		h.removeClient(c)
	}
}

func (h *Hub) broadcastToRoom(roomID string, frame []byte, excludeConnID string) {
	for _, member := range h.rooms.members(roomID) {
		if member.id == excludeConnID {
			continue
		}
		if !member.queue(frame) {
			// Send buffer full: the client stopped draining, cut it
			// loose rather than stall the room.
			h.log.Warn().Str("conn", member.id).Msg("dropping slow client")
			h.removeClient(member)
		}
	}
}
