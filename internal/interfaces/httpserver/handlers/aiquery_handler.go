package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/nexuschat/nexus-server/internal/domain/aiquery"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/requests"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/responses"
)

// AIQueryHandler exposes the assistant endpoints.
type AIQueryHandler struct {
	queries *domain.Service
	log     zerolog.Logger
}

func NewAIQueryHandler(queries *domain.Service, log zerolog.Logger) *AIQueryHandler {
	return &AIQueryHandler{
		queries: queries,
		log:     log.With().Str("component", "aiquery-handler").Logger(),
	}
}

// Ask creates a pending query and returns it immediately; resolution happens
// in the background. Summarize requests ignore the query text and use the
// full room history.
func (h *AIQueryHandler) Ask(c *gin.Context) {
	var req requests.AskAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{Error: "room_id and user_id are required"})
		return
	}

	var (
		q   *domain.AIQuery
		err error
	)
	if req.Summarize {
		q, err = h.queries.Summarize(c.Request.Context(), req.RoomID, req.UserID)
	} else {
		q, err = h.queries.Ask(c.Request.Context(), req.RoomID, req.UserID, req.Query)
	}
	if err != nil {
		responses.HandleError(c, err, "ai query failed")
		return
	}

	c.JSON(http.StatusAccepted, q)
}

// Get returns a single query with its current resolution state.
func (h *AIQueryHandler) Get(c *gin.Context) {
	q, err := h.queries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "fetch ai query failed")
		return
	}
	c.JSON(http.StatusOK, q)
}
