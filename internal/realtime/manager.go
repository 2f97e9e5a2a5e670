package realtime

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/infrastructure/metrics"
)

// Manager tracks session lifecycle and per-session typing debounce timers.
// Membership sets and typing timers are mutated only here and in the
// registry; no other component touches them.
type Manager struct {
	registry    *Registry
	hub         *Hub
	typingDelay time.Duration
	sendBuffer  int
	log         zerolog.Logger

	mu     sync.Mutex
	typing map[string]*typingState
}

// typingState carries the debounce timer for one session. gen increases on
// every activity so a late-firing stale timer can detect that newer activity
// superseded it.
type typingState struct {
	timer    *time.Timer
	gen      uint64
	roomID   string
	userName string
}

func NewManager(registry *Registry, hub *Hub, typingDelay time.Duration, sendBuffer int, log zerolog.Logger) *Manager {
	if typingDelay <= 0 {
		typingDelay = 3 * time.Second
	}
	return &Manager{
		registry:    registry,
		hub:         hub,
		typingDelay: typingDelay,
		sendBuffer:  sendBuffer,
		log:         log.With().Str("component", "session-manager").Logger(),
		typing:      make(map[string]*typingState),
	}
}

// OnConnect creates a session for the user and attaches it to the hub.
func (m *Manager) OnConnect(userID, userName string) *Session {
	s := newSession(userID, userName, m.sendBuffer)
	m.hub.Attach(s)
	metrics.SessionsConnected.Inc()
	m.log.Info().
		Str("session_id", s.ID).
		Str("user_id", userID).
		Msg("session connected")
	return s
}

// OnDisconnect destroys the session: pending typing timers are cancelled
// without firing, room membership is released, and the session leaves fan-out.
func (m *Manager) OnDisconnect(sessionID string) {
	m.cancelTyping(sessionID)
	m.registry.Leave(sessionID)
	if s, ok := m.hub.Session(sessionID); ok {
		s.close()
		metrics.SessionsConnected.Dec()
	}
	m.hub.Detach(sessionID)
	m.log.Info().Str("session_id", sessionID).Msg("session disconnected")
}

// OnJoinRoom moves the session into roomID, leaving any previous room.
func (m *Manager) OnJoinRoom(sessionID, roomID string) error {
	m.cancelTyping(sessionID)
	return m.registry.Join(sessionID, roomID)
}

// OnTypingActivity broadcasts a typing-start to the room (excluding the
// originator) and (re)starts the session's inactivity timer. Each call resets
// the timer: debounce, not accumulate. The generation bump and the broadcast
// happen under one critical section shared with typingExpired, so a pending
// timer can never slip its stop in after the room saw the newer start.
func (m *Manager) OnTypingActivity(sessionID, roomID, userName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.typing[sessionID]
	if !ok {
		st = &typingState{}
		m.typing[sessionID] = st
	}
	st.gen++
	st.roomID = roomID
	st.userName = userName
	gen := st.gen
	if st.timer != nil {
		st.timer.Stop()
	}

	m.hub.Broadcast(roomID, TypingStarted(userName), sessionID)

	st.timer = time.AfterFunc(m.typingDelay, func() {
		m.typingExpired(sessionID, gen)
	})
}

// OnTypingStop handles an explicit stop from the client: the pending timer is
// invalidated and the stop event goes out immediately.
func (m *Manager) OnTypingStop(sessionID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTypingLocked(sessionID)
	m.hub.Broadcast(roomID, TypingStopped(), sessionID)
}

// typingExpired fires when the inactivity timer elapses. The generation check
// suppresses stale timers; it runs with the stop broadcast still under m.mu
// so activity arriving concurrently orders strictly before or after the stop,
// never interleaved.
func (m *Manager) typingExpired(sessionID string, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.typing[sessionID]
	if !ok || st.gen != gen {
		return
	}
	roomID := st.roomID
	delete(m.typing, sessionID)

	m.hub.Broadcast(roomID, TypingStopped(), sessionID)
}

func (m *Manager) cancelTyping(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelTypingLocked(sessionID)
}

func (m *Manager) cancelTypingLocked(sessionID string) {
	st, ok := m.typing[sessionID]
	if !ok {
		return
	}
	st.gen++
	if st.timer != nil {
		st.timer.Stop()
	}
	delete(m.typing, sessionID)
}
