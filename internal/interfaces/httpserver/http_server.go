package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nexuschat/nexus-server/internal/config"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/handlers"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/routes"
	"github.com/nexuschat/nexus-server/internal/interfaces/wsserver"
)

// HTTPServer wraps the gin engine with graceful shutdown helpers.
type HTTPServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New constructs the HTTP server with default middleware, the REST API and
// the websocket endpoint.
func New(cfg *config.Config, log zerolog.Logger, handlerProvider *handlers.Provider, ws *wsserver.Handler) *HTTPServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/ws", ws.Handle)

	routes.NewProvider(handlerProvider).Register(engine)

	return &HTTPServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Run starts the HTTP listener and handles graceful shutdown via context
// cancellation.
func (s *HTTPServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
