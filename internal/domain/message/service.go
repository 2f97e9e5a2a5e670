package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/infrastructure/metrics"
)

// Repository defines persistence operations needed by the service. The
// reaction increment must run read-increment-write inside one transaction;
// the repository owns that serialization.
type Repository interface {
	LoadMessages(ctx context.Context, roomID string) ([]*Message, error)
	AppendMessage(ctx context.Context, m *Message) (*Message, error)
	IncrementReaction(ctx context.Context, messageID, emoji string) (map[string]int, string, error)
}

// RoomLookup resolves room existence for submissions.
type RoomLookup interface {
	FindByID(ctx context.Context, id string) (*room.Room, error)
}

// Service assigns authoritative ordering to messages and serializes reaction
// updates through the persistence gateway.
type Service struct {
	repo  Repository
	rooms RoomLookup
	log   zerolog.Logger
}

func NewService(repo Repository, rooms RoomLookup, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		rooms: rooms,
		log:   log.With().Str("component", "message-service").Logger(),
	}
}

// Submit persists a client-authored provisional message and returns the
// persisted form carrying the authoritative ID and timestamp. The client's
// provisional ID is echoed back so the sender can reconcile its optimistic
// copy.
func (s *Service) Submit(ctx context.Context, provisional *Message) (*Message, error) {
	if strings.TrimSpace(provisional.Content) == "" {
		return nil, fmt.Errorf("message content is required")
	}
	if provisional.Type == "" {
		provisional.Type = TypeText
	}

	if _, err := s.rooms.FindByID(ctx, provisional.RoomID); err != nil {
		return nil, err
	}

	persisted, err := s.repo.AppendMessage(ctx, provisional)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	metrics.MessagesPersisted.Inc()
	s.log.Debug().
		Str("message_id", persisted.ID).
		Str("room_id", persisted.RoomID).
		Msg("message persisted")
	return persisted, nil
}

// React increments the count for (messageID, emoji) and returns the updated
// tally plus the room the message belongs to. Counts only, no per-user
// attribution.
func (s *Service) React(ctx context.Context, messageID, emoji string) (map[string]int, string, error) {
	if strings.TrimSpace(emoji) == "" {
		return nil, "", fmt.Errorf("emoji is required")
	}

	counts, roomID, err := s.repo.IncrementReaction(ctx, messageID, emoji)
	if err != nil {
		return nil, "", err
	}
	return counts, roomID, nil
}

// History returns the room's messages in display order.
func (s *Service) History(ctx context.Context, roomID string) ([]*Message, error) {
	msgs, err := s.repo.LoadMessages(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	Sort(msgs)
	return msgs, nil
}
