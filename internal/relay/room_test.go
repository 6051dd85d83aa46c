package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoomID_SymmetricForAnyPair(t *testing.T) {
	req := require.New(t)

	pairs := [][2]string{
		{"1", "2"},
		{"alice", "bob"},
		{"42", "7"},
		{"same", "same"},
	}
	for _, pair := range pairs {
		req.Equal(RoomID(pair[0], pair[1]), RoomID(pair[1], pair[0]))
	}
}

func TestRoomID_SortsBeforeJoining(t *testing.T) {
	req := require.New(t)

	req.Equal("1-2", RoomID("1", "2"))
	req.Equal("1-2", RoomID("2", "1"))
	req.Equal("alice-bob", RoomID("bob", "alice"))
}

func TestRoomIndex_LastMemberLeavingRemovesRoom(t *testing.T) {
	req := require.New(t)
	index := newRoomIndex()
	c1 := &Client{id: "c1", send: make(chan []byte, 1)}
	c2 := &Client{id: "c2", send: make(chan []byte, 1)}

	index.subscribe("1-2", c1)
	index.subscribe("1-2", c2)
	req.Len(index.members("1-2"), 2)

	index.unsubscribe("1-2", c1.id)
	req.Len(index.members("1-2"), 1)

	index.unsubscribe("1-2", c2.id)
	req.Empty(index.members("1-2"))
	req.Empty(index.rooms)
}

func TestRoomIndex_ResubscribeIsIdempotent(t *testing.T) {
	req := require.New(t)
	index := newRoomIndex()
	c := &Client{id: "c1", send: make(chan []byte, 1)}

	index.subscribe("1-2", c)
	index.subscribe("1-2", c)

	req.Len(index.members("1-2"), 1)
}

func TestRoomIndex_UnsubscribeUnknownRoomIsNoOp(t *testing.T) {
	index := newRoomIndex()
	index.unsubscribe("never-seen", "c1")
	require.Empty(t, index.rooms)
}
