package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/infrastructure/database/entities"
)

// Repository persists messages and their reaction tallies.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadMessages returns a room's messages ordered by creation time ascending,
// ties broken by ID.
func (r *Repository) LoadMessages(ctx context.Context, roomID string) ([]*domain.Message, error) {
	var rows []entities.Message
	if err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	out := make([]*domain.Message, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].EtoD())
	}
	return out, nil
}

// AppendMessage persists a provisional message and returns the authoritative
// form. The gateway assigns the ID and creation timestamp; the client's
// provisional ID is carried through untouched for reconciliation.
func (r *Repository) AppendMessage(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	entity := entities.NewSchemaMessage(m)
	entity.ID = uuid.NewString()
	if entity.Reactions == nil {
		entity.Reactions = entities.ReactionMap{}
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	persisted := entity.EtoD()
	persisted.ProvisionalID = m.ProvisionalID
	return persisted, nil
}

// IncrementReaction bumps the count for (messageID, emoji) inside one
// transaction with a row lock, so concurrent increments serialize and none is
// lost. It returns the updated tally and the room the message belongs to.
func (r *Repository) IncrementReaction(ctx context.Context, messageID, emoji string) (map[string]int, string, error) {
	var counts map[string]int
	var roomID string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Message
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entity, "id = ?", messageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("fetch message for reaction: %w", err)
		}

		if entity.Reactions == nil {
			entity.Reactions = entities.ReactionMap{}
		}
		entity.Reactions[emoji]++

		if err := tx.Model(&entity).Update("reactions", entity.Reactions).Error; err != nil {
			return fmt.Errorf("update reactions: %w", err)
		}

		counts = map[string]int(entity.Reactions)
		roomID = entity.RoomID
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return counts, roomID, nil
}
