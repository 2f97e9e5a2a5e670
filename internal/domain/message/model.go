package message

import (
	"errors"
	"sort"
	"time"
)

// ErrNotFound signals an unknown message ID.
var ErrNotFound = errors.New("message not found")

// Type classifies message content.
type Type string

const (
	TypeText   Type = "text"
	TypeImage  Type = "image"
	TypeSystem Type = "system"
)

// Message is a single room message. ID is server-authoritative once
// persisted; ProvisionalID carries the client-generated ID that preceded it
// so the sender can reconcile its optimistic copy.
type Message struct {
	ID            string         `json:"id"`
	ProvisionalID string         `json:"provisional_id,omitempty"`
	RoomID        string         `json:"room_id"`
	UserID        string         `json:"user_id"`
	Content       string         `json:"content"`
	Type          Type           `json:"type"`
	Reactions     map[string]int `json:"reactions"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Sort orders messages for display: creation timestamp ascending, ties broken
// by ID so the order is deterministic.
func Sort(msgs []*Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}
