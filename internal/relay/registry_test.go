package relay

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()

	_, ok := registry.Lookup(connID)
	req.False(ok)

	registry.Register(connID, "alice", "alice-bob")

	sess, ok := registry.Lookup(connID)
	req.True(ok)
	req.Equal("alice", sess.Identity)
	req.Equal("alice-bob", sess.RoomID)
	req.Equal(1, registry.Count())
}

func TestRegistry_ReRegisterOverwrites(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()

	registry.Register(connID, "alice", "alice-bob")
	registry.Register(connID, "alice", "alice-carol")

	sess, ok := registry.Lookup(connID)
	req.True(ok)
	req.Equal("alice-carol", sess.RoomID)
	req.Equal(1, registry.Count())
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connID := uuid.NewString()

	registry.Register(connID, "alice", "alice-bob")
	registry.Unregister(connID)
	registry.Unregister(connID)

	_, ok := registry.Lookup(connID)
	req.False(ok)
	req.Equal(0, registry.Count())
}
