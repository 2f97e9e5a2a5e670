package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/nexuschat/nexus-server/internal/domain/room"
)

// StringList stores an ordered-irrelevant set of IDs as jsonb.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Room represents the database schema for rooms.
type Room struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name        string     `gorm:"type:varchar(128);not null"`
	Description string     `gorm:"type:text"`
	OwnerID     string     `gorm:"type:varchar(64);index;not null"`
	MemberIDs   StringList `gorm:"type:jsonb"`
}

// TableName specifies the table name for Room.
func (Room) TableName() string {
	return "rooms"
}

// EtoD converts database entity to domain model.
func (r *Room) EtoD() *room.Room {
	return &room.Room{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		MemberIDs:   []string(r.MemberIDs),
		CreatedAt:   r.CreatedAt,
	}
}

// NewSchemaRoom converts a domain model to its database entity.
func NewSchemaRoom(d *room.Room) *Room {
	return &Room{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		MemberIDs:   StringList(d.MemberIDs),
	}
}
