package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/nexuschat/nexus-server/internal/domain/user"
	"github.com/nexuschat/nexus-server/internal/infrastructure/database/entities"
)

// Repository persists users.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail fetches a user and its stored password hash.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	var entity entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("fetch user by email: %w", err)
	}
	return entity.EtoD(), entity.PasswordHash, nil
}

// FindByID fetches a user by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var entity entities.User
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return entity.EtoD(), nil
}

// Create inserts the user record, assigning its ID.
func (r *Repository) Create(ctx context.Context, u *domain.User, passwordHash string) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	entity := entities.NewSchemaUser(u, passwordHash)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.CreatedAt = entity.CreatedAt
	return nil
}

// UpdateStatus flips the presence state.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("update user status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
