package wsserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/domain/user"
	"github.com/nexuschat/nexus-server/internal/realtime"
)

// Handler upgrades connections and manages one session per connection.
type Handler struct {
	manager  *realtime.Manager
	registry *realtime.Registry
	hub      *realtime.Hub
	users    *user.Service
	rooms    *room.Service
	messages *message.Service
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHandler(
	manager *realtime.Manager,
	registry *realtime.Registry,
	hub *realtime.Hub,
	users *user.Service,
	rooms *room.Service,
	messages *message.Service,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		manager:  manager,
		registry: registry,
		hub:      hub,
		users:    users,
		rooms:    rooms,
		messages: messages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "ws-handler").Logger(),
	}
}

// Handle upgrades the request and services the connection until it closes.
// The session is created on connect and destroyed on disconnect; a user
// reconnecting gets a fresh session.
func (h *Handler) Handle(c *gin.Context) {
	userID := c.Query("user_id")
	userName := c.Query("user_name")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := h.manager.OnConnect(userID, userName)
	if err := h.users.SetStatus(c.Request.Context(), userID, user.StatusOnline); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("set presence online")
	}

	client := newClient(conn, session, h)
	go client.writePump()
	client.readPump()

	h.finishSession(session, userID)
}

// finishSession tears the session down and flips presence offline. The
// presence update runs on a detached context: the request context is already
// dead once the connection closes, and during shutdown it is cancelled.
func (h *Handler) finishSession(session *realtime.Session, userID string) {
	h.manager.OnDisconnect(session.ID)

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := h.users.SetStatus(ctx, userID, user.StatusOffline); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("set presence offline")
	}
}
