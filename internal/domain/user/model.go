package user

import "time"

// Status is the presence state of a user.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusBusy    Status = "busy"
)

// User represents a registered chat participant.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
	AvatarURL   string    `json:"avatar"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
