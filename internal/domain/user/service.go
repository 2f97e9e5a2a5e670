package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCredentials signals a password mismatch on login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound signals an unknown user without registration data.
	ErrNotFound = errors.New("user not found")
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, string, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User, passwordHash string) error
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Service handles login, registration and presence updates.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "user-service").Logger(),
	}
}

// Login authenticates an existing user or registers a new one when a display
// name is supplied. Password comparison uses the same plain sha256 digest the
// stored hash was created with; this is deliberately not a designed
// authentication protocol.
func (s *Service) Login(ctx context.Context, email, password, name string) (*User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidCredentials)
	}

	digest := hashPassword(password)

	existing, storedHash, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if storedHash == "" || storedHash != digest {
			return nil, ErrInvalidCredentials
		}
		if err := s.repo.UpdateStatus(ctx, existing.ID, StatusOnline); err != nil {
			s.log.Warn().Err(err).Str("user_id", existing.ID).Msg("update presence on login")
		}
		existing.Status = StatusOnline
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrNotFound
	}

	created := &User{
		Email:       email,
		DisplayName: name,
		AvatarURL:   avatarURL(name),
		Status:      StatusOnline,
	}
	if err := s.repo.Create(ctx, created, digest); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("registered new user")
	return created, nil
}

// SetStatus updates a user's presence state.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func avatarURL(name string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name)
}
