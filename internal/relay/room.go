package relay

import "sync"

// RoomID derives the canonical identifier for a two-party conversation.
// The pair is sorted first so both participants land in the same room no
// matter who initiates: RoomID(a, b) == RoomID(b, a).
func RoomID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

// roomIndex tracks which clients are subscribed to which room key. Rooms
// have no record of their own; an entry appears on the first subscribe and
// disappears when the last member leaves.
type roomIndex struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Client
}

func newRoomIndex() *roomIndex {
	return &roomIndex{rooms: make(map[string]map[string]*Client)}
}

func (ri *roomIndex) subscribe(roomID string, c *Client) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	members, ok := ri.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		ri.rooms[roomID] = members
	}
	members[c.id] = c
}

func (ri *roomIndex) unsubscribe(roomID, connID string) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	members, ok := ri.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(ri.rooms, roomID)
	}
}

// members returns a snapshot so the caller can fan out without holding the
// lock while it writes to client channels.
func (ri *roomIndex) members(roomID string) []*Client {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	snapshot := make([]*Client, 0, len(ri.rooms[roomID]))
	for _, c := range ri.rooms[roomID] {
		snapshot = append(snapshot, c)
	}
	return snapshot
}
