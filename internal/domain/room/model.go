package room

import (
	"errors"
	"time"
)

// ErrNotFound signals an unknown room ID.
var ErrNotFound = errors.New("room not found")

// Room is a named channel grouping a set of member users and their messages.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	MemberIDs   []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
}
