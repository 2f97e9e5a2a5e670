package aiquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/nexuschat/nexus-server/internal/domain/aiquery"
	"github.com/nexuschat/nexus-server/internal/infrastructure/database/entities"
)

// Repository persists the per-room AI query log.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a pending query, assigning its ID.
func (r *Repository) Create(ctx context.Context, q *domain.AIQuery) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	entity := entities.NewSchemaAIQuery(q)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create ai query: %w", err)
	}
	q.CreatedAt = entity.CreatedAt
	return nil
}

// Complete transitions the query to its terminal state with the response
// text. The pending -> complete transition happens exactly once; a second
// call leaves the stored response untouched.
func (r *Repository) Complete(ctx context.Context, id, response string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.AIQuery{}).
		Where("id = ? AND state = ?", id, string(domain.StatePending)).
		Updates(map[string]any{
			"response": response,
			"state":    string(domain.StateComplete),
		})
	if result.Error != nil {
		return fmt.Errorf("complete ai query: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByID fetches a query by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.AIQuery, error) {
	var entity entities.AIQuery
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch ai query: %w", err)
	}
	return entity.EtoD(), nil
}

// ListByRoom returns the room's query log, oldest first.
func (r *Repository) ListByRoom(ctx context.Context, roomID string) ([]*domain.AIQuery, error) {
	var rows []entities.AIQuery
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ai queries: %w", err)
	}
	out := make([]*domain.AIQuery, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].EtoD())
	}
	return out, nil
}
