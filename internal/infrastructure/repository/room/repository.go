package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/infrastructure/database/entities"
)

// Repository persists rooms.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadRooms returns all rooms, newest first.
func (r *Repository) LoadRooms(ctx context.Context) ([]*domain.Room, error) {
	var rows []entities.Room
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	out := make([]*domain.Room, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].EtoD())
	}
	return out, nil
}

// FindByID fetches a room by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	var entity entities.Room
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch room: %w", err)
	}
	return entity.EtoD(), nil
}

// Create inserts the room record, assigning its ID and creation timestamp.
func (r *Repository) Create(ctx context.Context, d *domain.Room) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	entity := entities.NewSchemaRoom(d)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	d.CreatedAt = entity.CreatedAt
	return nil
}

// AddMember appends userID to the room's member set if not already present.
// The read-modify-write runs under a row lock.
func (r *Repository) AddMember(ctx context.Context, roomID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entity, "id = ?", roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("fetch room for membership: %w", err)
		}

		for _, id := range entity.MemberIDs {
			if id == userID {
				return nil
			}
		}
		entity.MemberIDs = append(entity.MemberIDs, userID)

		if err := tx.Model(&entity).Update("member_ids", entity.MemberIDs).Error; err != nil {
			return fmt.Errorf("update room members: %w", err)
		}
		return nil
	})
}
