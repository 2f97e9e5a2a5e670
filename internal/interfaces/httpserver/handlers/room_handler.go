package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/domain/aiquery"
	"github.com/nexuschat/nexus-server/internal/domain/message"
	domain "github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/requests"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/responses"
	"github.com/nexuschat/nexus-server/internal/realtime"
)

// RoomHandler exposes room listing, creation, message history and the
// per-room AI query log.
type RoomHandler struct {
	rooms    *domain.Service
	messages *message.Service
	queries  *aiquery.Service
	registry *realtime.Registry
	hub      *realtime.Hub
	log      zerolog.Logger
}

func NewRoomHandler(
	rooms *domain.Service,
	messages *message.Service,
	queries *aiquery.Service,
	registry *realtime.Registry,
	hub *realtime.Hub,
	log zerolog.Logger,
) *RoomHandler {
	return &RoomHandler{
		rooms:    rooms,
		messages: messages,
		queries:  queries,
		registry: registry,
		hub:      hub,
		log:      log.With().Str("component", "room-handler").Logger(),
	}
}

// List returns all rooms, newest first.
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.rooms.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "load rooms failed")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// Create persists a new room, registers it for joins and announces it to
// every connected session.
func (h *RoomHandler) Create(c *gin.Context) {
	var req requests.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{Error: "name and owner_id are required"})
		return
	}

	r, err := h.rooms.Create(c.Request.Context(), req.Name, req.Description, req.OwnerID)
	if err != nil {
		responses.HandleError(c, err, "create room failed")
		return
	}

	h.registry.RegisterRoom(r.ID)
	h.hub.BroadcastAll(realtime.RoomCreated(r))

	c.JSON(http.StatusOK, r)
}

// Messages returns the room's message history in display order.
func (h *RoomHandler) Messages(c *gin.Context) {
	msgs, err := h.messages.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "load messages failed")
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// AIQueries returns the room's query log, oldest first.
func (h *RoomHandler) AIQueries(c *gin.Context) {
	queries, err := h.queries.ListByRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "load ai queries failed")
		return
	}
	c.JSON(http.StatusOK, queries)
}
