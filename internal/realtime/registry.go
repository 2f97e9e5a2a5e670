package realtime

import (
	"sync"

	"github.com/nexuschat/nexus-server/internal/domain/room"
)

// Registry is the in-memory mapping of room ID to connected participant
// sessions. It is a transient, process-local view: the persistence gateway
// remains the durable source of truth, and the registry must be refreshed
// from it at startup and on every room-creation event.
type Registry struct {
	mu          sync.RWMutex
	knownRooms  map[string]struct{}
	members     map[string]map[string]struct{}
	sessionRoom map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		knownRooms:  make(map[string]struct{}),
		members:     make(map[string]map[string]struct{}),
		sessionRoom: make(map[string]string),
	}
}

// RegisterRoom makes roomID joinable. Idempotent.
func (r *Registry) RegisterRoom(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.knownRooms[roomID] = struct{}{}
}

// Join adds the session to roomID's participant set, removing it from any
// previously joined room first: a session is a member of at most one room at
// a time. Joining an unregistered room fails with room.ErrNotFound.
func (r *Registry) Join(sessionID, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.knownRooms[roomID]; !ok {
		return room.ErrNotFound
	}

	r.leaveLocked(sessionID)

	set, ok := r.members[roomID]
	if !ok {
		set = make(map[string]struct{})
		r.members[roomID] = set
	}
	set[sessionID] = struct{}{}
	r.sessionRoom[sessionID] = roomID
	return nil
}

// Leave removes the session from whatever room it occupies. No-op if the
// session is not a member anywhere.
func (r *Registry) Leave(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(sessionID)
}

func (r *Registry) leaveLocked(sessionID string) {
	roomID, ok := r.sessionRoom[sessionID]
	if !ok {
		return
	}
	delete(r.sessionRoom, sessionID)
	if set, ok := r.members[roomID]; ok {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(r.members, roomID)
		}
	}
}

// MembersOf returns the current participant set for fan-out.
func (r *Registry) MembersOf(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.members[roomID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// RoomOf reports which room the session currently occupies, if any.
func (r *Registry) RoomOf(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomID, ok := r.sessionRoom[sessionID]
	return roomID, ok
}
