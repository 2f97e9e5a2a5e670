package entities

import (
	"time"

	"github.com/nexuschat/nexus-server/internal/domain/aiquery"
)

// AIQuery represents the database schema for the per-room AI query log.
type AIQuery struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	RoomID   string `gorm:"type:varchar(64);index;not null"`
	UserID   string `gorm:"type:varchar(64);not null"`
	Query    string `gorm:"type:text;not null"`
	Response string `gorm:"type:text"`
	State    string `gorm:"type:varchar(16);not null;default:'pending'"`
	Model    string `gorm:"type:varchar(64)"`
}

// TableName specifies the table name for AIQuery.
func (AIQuery) TableName() string {
	return "ai_queries"
}

// EtoD converts database entity to domain model.
func (q *AIQuery) EtoD() *aiquery.AIQuery {
	return &aiquery.AIQuery{
		ID:        q.ID,
		RoomID:    q.RoomID,
		UserID:    q.UserID,
		Query:     q.Query,
		Response:  q.Response,
		State:     aiquery.State(q.State),
		Model:     q.Model,
		CreatedAt: q.CreatedAt,
	}
}

// NewSchemaAIQuery converts a domain model to its database entity.
func NewSchemaAIQuery(d *aiquery.AIQuery) *AIQuery {
	return &AIQuery{
		ID:       d.ID,
		RoomID:   d.RoomID,
		UserID:   d.UserID,
		Query:    d.Query,
		Response: d.Response,
		State:    string(d.State),
		Model:    d.Model,
	}
}
