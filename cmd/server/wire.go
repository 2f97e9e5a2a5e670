//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
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

var domainSet = wire.NewSet(
	userrepo.NewRepository,
	wire.Bind(new(user.Repository), new(*userrepo.Repository)),
	roomrepo.NewRepository,
	wire.Bind(new(room.Repository), new(*roomrepo.Repository)),
	wire.Bind(new(message.RoomLookup), new(*roomrepo.Repository)),
	messagerepo.NewRepository,
	wire.Bind(new(message.Repository), new(*messagerepo.Repository)),
	aiqueryrepo.NewRepository,
	wire.Bind(new(aiquery.Repository), new(*aiqueryrepo.Repository)),
	newAIProvider,
	wire.Bind(new(aiquery.Generator), new(*aiprovider.Client)),
	user.NewService,
	room.NewService,
	message.NewService,
	wire.Bind(new(aiquery.MessageHistory), new(*message.Service)),
	newAIQueryService,
)

var realtimeSet = wire.NewSet(
	realtime.NewRegistry,
	realtime.NewHub,
	newManager,
)

// BuildApplication assembles the chat server with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		domainSet,
		realtimeSet,
		handlers.NewProvider,
		wsserver.NewHandler,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAIProvider(cfg *config.Config) *aiprovider.Client {
	return aiprovider.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)
}

func newAIQueryService(
	repo aiquery.Repository,
	history aiquery.MessageHistory,
	generator aiquery.Generator,
	cfg *config.Config,
	log zerolog.Logger,
) *aiquery.Service {
	return aiquery.NewService(repo, history, generator, cfg.AIModel, cfg.AIQueryTimeout, log)
}

func newManager(registry *realtime.Registry, hub *realtime.Hub, cfg *config.Config, log zerolog.Logger) *realtime.Manager {
	return realtime.NewManager(registry, hub, cfg.TypingStopDelay, cfg.SessionSendBuffer, log)
}
