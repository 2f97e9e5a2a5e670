package handlers

import (
	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/domain/aiquery"
	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/domain/user"
	"github.com/nexuschat/nexus-server/internal/realtime"
)

// Provider groups all HTTP handlers.
type Provider struct {
	Auth    *AuthHandler
	Room    *RoomHandler
	Message *MessageHandler
	AIQuery *AIQueryHandler
}

func NewProvider(
	users *user.Service,
	rooms *room.Service,
	messages *message.Service,
	queries *aiquery.Service,
	registry *realtime.Registry,
	hub *realtime.Hub,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Auth:    NewAuthHandler(users, log),
		Room:    NewRoomHandler(rooms, messages, queries, registry, hub, log),
		Message: NewMessageHandler(messages, hub, log),
		AIQuery: NewAIQueryHandler(queries, log),
	}
}
