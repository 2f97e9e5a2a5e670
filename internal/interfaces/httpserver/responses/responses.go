package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexuschat/nexus-server/internal/domain/aiquery"
	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/domain/user"
)

// ErrorResponse is the JSON body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError maps domain errors to HTTP responses. Persistence failures are
// reported to the caller; the client is responsible for resubmission.
func HandleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, room.ErrNotFound),
		errors.Is(err, message.ErrNotFound),
		errors.Is(err, aiquery.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
