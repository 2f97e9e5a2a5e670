package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/handlers"
)

// Provider encapsulates API route registration.
type Provider struct {
	handlers *handlers.Provider
}

func NewProvider(provider *handlers.Provider) *Provider {
	return &Provider{handlers: provider}
}

// Register attaches all API routes under the /api prefix.
func (p *Provider) Register(router gin.IRouter) {
	api := router.Group("/api")
	api.POST("/auth/login", p.handlers.Auth.Login)

	api.GET("/rooms", p.handlers.Room.List)
	api.POST("/rooms", p.handlers.Room.Create)
	api.GET("/rooms/:id/messages", p.handlers.Room.Messages)
	api.GET("/rooms/:id/ai-queries", p.handlers.Room.AIQueries)

	api.POST("/messages", p.handlers.Message.Create)
	api.POST("/messages/:id/react", p.handlers.Message.React)

	api.POST("/ai/queries", p.handlers.AIQuery.Ask)
	api.GET("/ai/queries/:id", p.handlers.AIQuery.Get)
}
