package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/infrastructure/metrics"
)

const dedupSweepInterval = 10 * time.Minute

// Hub fans events out to every session currently joined to a room. Broadcasts
// are serialized under one lock, so events issued in order are observed in
// order by every participant; per-session buffers decouple delivery from slow
// connections.
type Hub struct {
	registry *Registry
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	observed map[string]map[string]struct{}
}

func NewHub(registry *Registry, log zerolog.Logger) *Hub {
	return &Hub{
		registry: registry,
		log:      log.With().Str("component", "hub").Logger(),
		sessions: make(map[string]*Session),
		observed: make(map[string]map[string]struct{}),
	}
}

// Attach makes a session reachable for fan-out.
func (h *Hub) Attach(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
}

// Detach removes a session from fan-out.
func (h *Hub) Detach(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

// Session looks up an attached session.
func (h *Hub) Session(sessionID string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	return s, ok
}

// Broadcast delivers ev to every session joined to roomID except
// excludeSessionID (empty string excludes nobody). Events carrying a dedup ID
// already observed in the room are silently absorbed. A session whose buffer
// is full is skipped for this event rather than blocking the caller.
func (h *Hub) Broadcast(roomID string, ev Event, excludeSessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ev.dedupID != "" {
		seen, ok := h.observed[roomID]
		if !ok {
			seen = make(map[string]struct{})
			h.observed[roomID] = seen
		}
		if _, dup := seen[ev.dedupID]; dup {
			metrics.DuplicatesAbsorbed.Inc()
			h.log.Debug().
				Str("room_id", roomID).
				Str("event_id", ev.dedupID).
				Msg("duplicate event absorbed")
			return
		}
		seen[ev.dedupID] = struct{}{}
	}

	for _, sessionID := range h.registry.MembersOf(roomID) {
		if sessionID == excludeSessionID {
			continue
		}
		h.deliver(sessionID, ev)
	}
}

// BroadcastAll delivers ev to every attached session regardless of room
// membership. Used for room_created announcements.
func (h *Hub) BroadcastAll(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID := range h.sessions {
		h.deliver(sessionID, ev)
	}
}

// Run periodically drops dedup state for rooms without participants. With
// nobody joined there is no delivery left to suppress; rejoining sessions load
// history over REST. Blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(dedupSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.sweepObserved()
		}
	}
}

func (h *Hub) sweepObserved() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID := range h.observed {
		if len(h.registry.MembersOf(roomID)) == 0 {
			delete(h.observed, roomID)
		}
	}
}

// SendTo delivers ev to a single session, bypassing room membership. Used for
// direct error replies.
func (h *Hub) SendTo(sessionID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliver(sessionID, ev)
}

func (h *Hub) deliver(sessionID string, ev Event) {
	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	if !s.trySend(ev) {
		metrics.DroppedSends.WithLabelValues(string(ev.Type)).Inc()
		h.log.Warn().
			Str("session_id", sessionID).
			Str("event_type", string(ev.Type)).
			Msg("session buffer full, event skipped")
		return
	}
	metrics.EventsFannedOut.WithLabelValues(string(ev.Type)).Inc()
}
