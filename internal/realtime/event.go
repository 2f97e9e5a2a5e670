package realtime

import (
	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/domain/room"
)

// EventType names an outbound room event.
type EventType string

const (
	EventMessageReceived EventType = "message_received"
	EventReactionUpdated EventType = "reaction_updated"
	EventTypingStarted   EventType = "typing_started"
	EventTypingStopped   EventType = "typing_stopped"
	EventRoomCreated     EventType = "room_created"

	// EventError is a direct reply to the session whose command failed; it is
	// never fanned out.
	EventError EventType = "error"
)

// Event is one outbound event delivered to room participants. dedupID, when
// set, identifies the event for at-most-once delivery per room.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`

	dedupID string
}

// ReactionPayload carries an updated reaction count.
type ReactionPayload struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
	NewCount  int    `json:"new_count"`
}

// TypingPayload identifies the typist for typing_started events.
type TypingPayload struct {
	UserName string `json:"user_name"`
}

// MessageReceived wraps a persisted message. The message ID doubles as the
// dedup key: the optimistic-UI echo and transport duplicates carry the same
// authoritative ID and are absorbed at fan-out.
func MessageReceived(m *message.Message) Event {
	return Event{Type: EventMessageReceived, Payload: m, dedupID: m.ID}
}

// ReactionUpdated announces the authoritative count for (messageID, emoji).
func ReactionUpdated(messageID, emoji string, newCount int) Event {
	return Event{Type: EventReactionUpdated, Payload: ReactionPayload{
		MessageID: messageID,
		Emoji:     emoji,
		NewCount:  newCount,
	}}
}

// TypingStarted announces that userName began typing.
func TypingStarted(userName string) Event {
	return Event{Type: EventTypingStarted, Payload: TypingPayload{UserName: userName}}
}

// TypingStopped announces the end of a typing burst.
func TypingStopped() Event {
	return Event{Type: EventTypingStopped}
}

// RoomCreated announces a newly created room to every connected session.
func RoomCreated(r *room.Room) Event {
	return Event{Type: EventRoomCreated, Payload: r}
}

// ErrorPayload reports a failed command back to its originator.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CommandError builds an error reply for the originating session.
func CommandError(code, message string) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Code: code, Message: message}}
}
