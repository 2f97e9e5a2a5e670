package aiquery

import (
	"errors"
	"time"
)

// ErrNotFound signals an unknown query ID.
var ErrNotFound = errors.New("ai query not found")

// State is the resolution state of a query. A query transitions
// pending -> complete exactly once; failure is also terminal complete.
type State string

const (
	StatePending  State = "pending"
	StateComplete State = "complete"
)

// AIQuery records one question asked of the assistant, scoped to a room.
type AIQuery struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	State     State     `json:"state"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// ContextMessage is one line of room history handed to the generator,
// labeled by author.
type ContextMessage struct {
	Author  string
	Content string
}
