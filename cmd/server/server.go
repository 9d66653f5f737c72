package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"pitchlab/services/chat-api/internal/config"
	"pitchlab/services/chat-api/internal/domain/chat"
	"pitchlab/services/chat-api/internal/infrastructure/auth"
	"pitchlab/services/chat-api/internal/infrastructure/database"
	"pitchlab/services/chat-api/internal/infrastructure/llmprovider"
	"pitchlab/services/chat-api/internal/infrastructure/logger"
	"pitchlab/services/chat-api/internal/infrastructure/metrics"
	"pitchlab/services/chat-api/internal/infrastructure/observability"
	"pitchlab/services/chat-api/internal/infrastructure/queue"
	messagerepo "pitchlab/services/chat-api/internal/infrastructure/repository/message"
	personarepo "pitchlab/services/chat-api/internal/infrastructure/repository/persona"
	jobrepo "pitchlab/services/chat-api/internal/infrastructure/repository/roundjob"
	threadrepo "pitchlab/services/chat-api/internal/infrastructure/repository/thread"
	"pitchlab/services/chat-api/internal/interfaces/httpserver"
	"pitchlab/services/chat-api/internal/worker"
)

// @title Chat API
// @version 1.0
// @description Runs multi-persona response rounds over project chat threads, with mention addressing and a durable message log.
// @contact.name PitchLab Team
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HTTPServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
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

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		URL:          cfg.DatabaseURL,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxOpenConns: cfg.DBMaxOpenConns,
		ConnLifetime: cfg.DBConnLifetime,
		LogLevel:     gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	threadRepository := threadrepo.NewRepository(db)
	personaRepository := personarepo.NewRepository(db)
	messageRepository := messagerepo.NewRepository(db)
	jobRepository := jobrepo.NewRepository(db)
	llmClient := llmprovider.NewClient(cfg.GenerationAPIURL, cfg.GenerationAPIKey)

	orchestrator := chat.NewOrchestrator(
		llmClient,
		messageRepository,
		chat.RoundConfig{
			Model:       cfg.GenerationModel,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxResponseTokens,
			Pacing:      cfg.RoundPacing,
		},
		metrics.NewRoundObserver(),
		log,
	)

	chatService := chat.NewService(
		threadRepository,
		personaRepository,
		messageRepository,
		jobRepository,
		orchestrator,
		cfg.RecentPageSize,
		log,
	)

	// Initialize background round infrastructure
	taskQueue := queue.NewPostgresQueue(db, log)
	workerPool := worker.NewPool(
		taskQueue,
		chatService,
		worker.Config{
			WorkerCount: cfg.BackgroundWorkerCount,
			TaskTimeout: cfg.RoundTimeout,
		},
		log,
	)

	// Start worker pool
	workerPool.Start(ctx)
	defer func() {
		log.Info().Msg("stopping worker pool")
		workerPool.Stop()
	}()

	httpServer := httpserver.New(cfg, log, chatService, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
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
