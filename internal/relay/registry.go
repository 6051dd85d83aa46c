package relay

import "sync"

// Session is what the registry knows about a joined connection.
type Session struct {
	Identity string
	RoomID   string
}

// Registry is the authoritative connection -> (identity, room) mapping.
// The hub owns all mutations; the mutex exists so the health endpoint can
// read the count from its own goroutine.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Register inserts or overwrites the entry for connID. Overwriting on a
// re-join is normal, not an error.
func (r *Registry) Register(connID, identity, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = Session{Identity: identity, RoomID: roomID}
}

// Lookup resolves a connection to its session. A connection that never
// joined yields ok=false and the caller drops the event.
func (r *Registry) Lookup(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[connID]
	return s, ok
}

// Unregister removes the entry. No-op if the connection never joined.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connID)
}

// Count reports how many connections have joined a room.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
