package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/requests"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/responses"
	"github.com/nexuschat/nexus-server/internal/realtime"
)

// MessageHandler exposes message submission and reactions over REST. The
// websocket command path shares the same services; events always go out
// through the hub so both paths observe identical ordering.
type MessageHandler struct {
	messages *domain.Service
	hub      *realtime.Hub
	log      zerolog.Logger
}

func NewMessageHandler(messages *domain.Service, hub *realtime.Hub, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		hub:      hub,
		log:      log.With().Str("component", "message-handler").Logger(),
	}
}

// Create persists a provisional message and fans the authoritative form out
// to the room.
func (h *MessageHandler) Create(c *gin.Context) {
	var req requests.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{Error: "room_id, user_id and content are required"})
		return
	}

	persisted, err := h.messages.Submit(c.Request.Context(), &domain.Message{
		ProvisionalID: req.ProvisionalID,
		RoomID:        req.RoomID,
		UserID:        req.UserID,
		Content:       req.Content,
		Type:          domain.Type(req.Type),
	})
	if err != nil {
		responses.HandleError(c, err, "message submission failed")
		return
	}

	h.hub.Broadcast(persisted.RoomID, realtime.MessageReceived(persisted), "")

	c.JSON(http.StatusOK, persisted)
}

// React increments one emoji tally and fans the authoritative count out to
// the room.
func (h *MessageHandler) React(c *gin.Context) {
	var req requests.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{Error: "emoji is required"})
		return
	}

	messageID := c.Param("id")
	counts, roomID, err := h.messages.React(c.Request.Context(), messageID, req.Emoji)
	if err != nil {
		responses.HandleError(c, err, "reaction failed")
		return
	}

	h.hub.Broadcast(roomID, realtime.ReactionUpdated(messageID, req.Emoji, counts[req.Emoji]), "")

	c.JSON(http.StatusOK, gin.H{"reactions": counts})
}
