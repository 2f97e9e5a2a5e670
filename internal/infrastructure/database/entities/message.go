package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/nexuschat/nexus-server/internal/domain/message"
)

// ReactionMap stores emoji -> count as jsonb. Counts only, no per-user
// attribution.
type ReactionMap map[string]int

func (m ReactionMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]int{})
	}
	return json.Marshal(m)
}

func (m *ReactionMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Message represents the database schema for messages.
type Message struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	RoomID    string      `gorm:"type:varchar(64);index:idx_message_room_created;not null"`
	UserID    string      `gorm:"type:varchar(64);index;not null"`
	Content   string      `gorm:"type:text;not null"`
	Type      string      `gorm:"type:varchar(16);not null;default:'text'"`
	Reactions ReactionMap `gorm:"type:jsonb"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts database entity to domain model.
func (m *Message) EtoD() *message.Message {
	reactions := map[string]int(m.Reactions)
	if reactions == nil {
		reactions = map[string]int{}
	}
	return &message.Message{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Content:   m.Content,
		Type:      message.Type(m.Type),
		Reactions: reactions,
		CreatedAt: m.CreatedAt,
	}
}

// NewSchemaMessage converts a domain model to its database entity.
func NewSchemaMessage(d *message.Message) *Message {
	return &Message{
		ID:        d.ID,
		RoomID:    d.RoomID,
		UserID:    d.UserID,
		Content:   d.Content,
		Type:      string(d.Type),
		Reactions: ReactionMap(d.Reactions),
	}
}
