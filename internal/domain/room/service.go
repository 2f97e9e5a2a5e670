package room

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	LoadRooms(ctx context.Context) ([]*Room, error)
	FindByID(ctx context.Context, id string) (*Room, error)
	Create(ctx context.Context, r *Room) error
	AddMember(ctx context.Context, roomID, userID string) error
}

// Service owns room listing, creation and membership growth.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "room-service").Logger(),
	}
}

// List returns all rooms, newest first.
func (s *Service) List(ctx context.Context) ([]*Room, error) {
	return s.repo.LoadRooms(ctx)
}

// Get fetches a single room.
func (s *Service) Get(ctx context.Context, id string) (*Room, error) {
	return s.repo.FindByID(ctx, id)
}

// Create persists a new room owned by ownerID. The owner is the first member.
func (s *Service) Create(ctx context.Context, name, description, ownerID string) (*Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("room name is required")
	}

	r := &Room{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		MemberIDs:   []string{ownerID},
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	s.log.Info().Str("room_id", r.ID).Str("owner_id", ownerID).Msg("room created")
	return r, nil
}

// AddMember records userID as a member of roomID. Membership only grows.
func (s *Service) AddMember(ctx context.Context, roomID, userID string) error {
	return s.repo.AddMember(ctx, roomID, userID)
}
