package requests

// LoginRequest authenticates an existing user, or registers a new one when
// Name is supplied.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// CreateRoomRequest creates a room owned by OwnerID.
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id" binding:"required"`
}

// SendMessageRequest submits a client-authored provisional message.
type SendMessageRequest struct {
	ProvisionalID string `json:"provisional_id"`
	RoomID        string `json:"room_id" binding:"required"`
	UserID        string `json:"user_id" binding:"required"`
	Content       string `json:"content" binding:"required"`
	Type          string `json:"type"`
}

// ReactRequest increments one emoji tally on a message.
type ReactRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// AskAIRequest submits a question to the assistant, scoped to a room.
type AskAIRequest struct {
	RoomID    string `json:"room_id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
	Query     string `json:"query"`
	Summarize bool   `json:"summarize"`
}
