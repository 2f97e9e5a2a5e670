package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "github.com/nexuschat/nexus-server/internal/domain/user"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/requests"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/responses"
)

// AuthHandler exposes the login/registration endpoint.
type AuthHandler struct {
	users *domain.Service
	log   zerolog.Logger
}

func NewAuthHandler(users *domain.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users: users,
		log:   log.With().Str("component", "auth-handler").Logger(),
	}
}

// Login authenticates or registers a user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{Error: "email and password are required"})
		return
	}

	u, err := h.users.Login(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		responses.HandleError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, u)
}
