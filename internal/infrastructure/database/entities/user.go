package entities

import (
	"time"

	"github.com/nexuschat/nexus-server/internal/domain/user"
)

// User represents the database schema for users.
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Email        string `gorm:"type:varchar(256);uniqueIndex;not null"`
	DisplayName  string `gorm:"type:varchar(128);not null"`
	PasswordHash string `gorm:"type:varchar(128)"`
	AvatarURL    string `gorm:"type:varchar(512)"`
	Status       string `gorm:"type:varchar(16);not null;default:'offline'"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// EtoD converts database entity to domain model.
func (u *User) EtoD() *user.User {
	return &user.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Status:      user.Status(u.Status),
		CreatedAt:   u.CreatedAt,
	}
}

// NewSchemaUser converts a domain model to its database entity.
func NewSchemaUser(d *user.User, passwordHash string) *User {
	return &User{
		ID:           d.ID,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PasswordHash: passwordHash,
		AvatarURL:    d.AvatarURL,
		Status:       string(d.Status),
	}
}
