package relay

import "encoding/json"

// Event names the client sends us.
const (
	EventJoinChat    = "join-chat"
	EventMessage     = "message"
	EventTyping      = "typing"
	EventGetMessages = "get-messages"
)

// Event names we send back.
const (
	EventUserTyping       = "user-typing"
	EventPreviousMessages = "previous-messages"
)

// Envelope frames every payload on the wire. Raw websocket frames carry no
// event name, so both directions wrap their payload with one.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinPayload identifies the two participants of a conversation. Both ids
// are claimed by the client; the relay does not verify them.
type JoinPayload struct {
	CurrentUserID string `json:"currentUserId" validate:"required"`
	OtherUserID   string `json:"otherUserId" validate:"required"`
}

type TypingPayload struct {
	UserID      string `json:"userId" validate:"required"`
	OtherUserID string `json:"otherUserId"`
	IsTyping    bool   `json:"isTyping"`
}

// TypingBroadcast is the trimmed form the rest of the room sees.
type TypingBroadcast struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
