package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nexuschat/nexus-server/internal/config"
	"github.com/nexuschat/nexus-server/internal/domain/aiquery"
	"github.com/nexuschat/nexus-server/internal/domain/message"
	"github.com/nexuschat/nexus-server/internal/domain/room"
	"github.com/nexuschat/nexus-server/internal/domain/user"
	"github.com/nexuschat/nexus-server/internal/infrastructure/aiprovider"
	"github.com/nexuschat/nexus-server/internal/infrastructure/database"
	"github.com/nexuschat/nexus-server/internal/infrastructure/logger"
	aiqueryrepo "github.com/nexuschat/nexus-server/internal/infrastructure/repository/aiquery"
	messagerepo "github.com/nexuschat/nexus-server/internal/infrastructure/repository/message"
	roomrepo "github.com/nexuschat/nexus-server/internal/infrastructure/repository/room"
	userrepo "github.com/nexuschat/nexus-server/internal/infrastructure/repository/user"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver"
	"github.com/nexuschat/nexus-server/internal/interfaces/httpserver/handlers"
	"github.com/nexuschat/nexus-server/internal/interfaces/wsserver"
	"github.com/nexuschat/nexus-server/internal/realtime"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	hub        *realtime.Hub
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HTTPServer, hub *realtime.Hub, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		hub:        hub,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	var eg errgroup.Group
	eg.Go(func() error {
		return a.hub.Run(ctx)
	})
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})
	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	userService := user.NewService(userrepo.NewRepository(db), log)
	roomService := room.NewService(roomrepo.NewRepository(db), log)
	messageService := message.NewService(messagerepo.NewRepository(db), roomrepo.NewRepository(db), log)

	aiClient := aiprovider.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)
	aiQueryService := aiquery.NewService(aiqueryrepo.NewRepository(db), messageService, aiClient, cfg.AIModel, cfg.AIQueryTimeout, log)

	registry := realtime.NewRegistry()
	hub := realtime.NewHub(registry, log)
	manager := realtime.NewManager(registry, hub, cfg.TypingStopDelay, cfg.SessionSendBuffer, log)

	if err := seedRegistry(ctx, registry, roomService); err != nil {
		log.Fatal().Err(err).Msg("seed room registry")
	}

	handlerProvider := handlers.NewProvider(userService, roomService, messageService, aiQueryService, registry, hub, log)
	wsHandler := wsserver.NewHandler(manager, registry, hub, userService, roomService, messageService, log)

	httpServer := httpserver.New(cfg, log, handlerProvider, wsHandler)
	app := NewApplication(httpServer, hub, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// seedRegistry makes every persisted room joinable before the first
// connection arrives.
func seedRegistry(ctx context.Context, registry *realtime.Registry, rooms *room.Service) error {
	existing, err := rooms.List(ctx)
	if err != nil {
		return err
	}
	for _, r := range existing {
		registry.RegisterRoom(r.ID)
	}
	return nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
