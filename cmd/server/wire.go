//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pitchlab/services/chat-api/internal/config"
	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/domain/llm"
	personaDomain "pitchlab/services/chat-api/internal/domain/persona"
	"pitchlab/services/chat-api/internal/infrastructure/auth"
	"pitchlab/services/chat-api/internal/infrastructure/database"
	"pitchlab/services/chat-api/internal/infrastructure/llmprovider"
	"pitchlab/services/chat-api/internal/infrastructure/logger"
	"pitchlab/services/chat-api/internal/infrastructure/metrics"
	messagerepo "pitchlab/services/chat-api/internal/infrastructure/repository/message"
	personarepo "pitchlab/services/chat-api/internal/infrastructure/repository/persona"
	jobrepo "pitchlab/services/chat-api/internal/infrastructure/repository/roundjob"
	threadrepo "pitchlab/services/chat-api/internal/infrastructure/repository/thread"
	"pitchlab/services/chat-api/internal/interfaces/httpserver"
)

var chatSet = wire.NewSet(
	threadrepo.NewRepository,
	wire.Bind(new(chat.ThreadRepository), new(*threadrepo.Repository)),
	personarepo.NewRepository,
	wire.Bind(new(personaDomain.Repository), new(*personarepo.Repository)),
	messagerepo.NewRepository,
	wire.Bind(new(chat.MessageRepository), new(*messagerepo.Repository)),
	jobrepo.NewRepository,
	wire.Bind(new(chat.JobRepository), new(*jobrepo.Repository)),
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newOrchestrator,
	newChatService,
)

// BuildApplication demonstrates how to assemble the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		URL:          cfg.DatabaseURL,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxOpenConns: cfg.DBMaxOpenConns,
		ConnLifetime: cfg.DBConnLifetime,
		LogLevel:     gormlogger.Warn,
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

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.GenerationAPIURL, cfg.GenerationAPIKey)
}

func newOrchestrator(cfg *config.Config, provider llm.Provider, messages chat.MessageRepository, log zerolog.Logger) *chat.Orchestrator {
	return chat.NewOrchestrator(
		provider,
		messages,
		chat.RoundConfig{
			Model:       cfg.GenerationModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxResponseTokens,
			Pacing:      cfg.RoundPacing,
		},
		metrics.NewRoundObserver(),
		log,
	)
}

func newChatService(
	threads chat.ThreadRepository,
	personas personaDomain.Repository,
	messages chat.MessageRepository,
	jobs chat.JobRepository,
	orchestrator *chat.Orchestrator,
	cfg *config.Config,
	log zerolog.Logger,
) chat.Service {
	return chat.NewService(threads, personas, messages, jobs, orchestrator, cfg.RecentPageSize, log)
}
