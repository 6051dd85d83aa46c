// Package history is the plug-in point behind the relay's get-messages
// event. The relay itself keeps no message log; a deployment wires a
// backend in through configuration, and without one every history request
// answers with an empty list.
package history

import (
	"context"
	"encoding/json"
)

// Store records broadcast messages per room and serves them back in
// chronological order.
type Store interface {
	Append(ctx context.Context, roomID string, message json.RawMessage) error
	Recent(ctx context.Context, roomID string) ([]json.RawMessage, error)
}

// Empty is the default store: it records nothing and always replies with
// an empty history.
type Empty struct{}

func (Empty) Append(context.Context, string, json.RawMessage) error {
	return nil
}

func (Empty) Recent(context.Context, string) ([]json.RawMessage, error) {
	return nil, nil
}
