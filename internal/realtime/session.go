package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Session is one live client connection, distinct from a User: a user may
// reconnect and get a new session. The send channel is drained by the
// transport's writer; the engine never blocks on it.
type Session struct {
	ID       string
	UserID   string
	UserName string

	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(userID, userName string, buffer int) *Session {
	if buffer <= 0 {
		buffer = 256
	}
	return &Session{
		ID:       uuid.NewString(),
		UserID:   userID,
		UserName: userName,
		send:     make(chan Event, buffer),
		done:     make(chan struct{}),
	}
}

// Events exposes the outbound event stream for the transport writer.
func (s *Session) Events() <-chan Event {
	return s.send
}

// Done is closed when the session is destroyed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// trySend enqueues ev without blocking. A full buffer means the session is
// stalled; the event is skipped for this session rather than blocking the
// room.
func (s *Session) trySend(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- ev:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
