package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/config"
	"github.com/stop-registry/internal/infrastructure/vbb"
	"github.com/stop-registry/internal/pkg/logger"
	"github.com/stop-registry/internal/repository/cache"
	redisRepo "github.com/stop-registry/internal/repository/redis"
	"github.com/stop-registry/internal/repository/sqlstore"
	"github.com/stop-registry/internal/usecase"
	"github.com/stop-registry/internal/worker"
	"github.com/stop-registry/internal/worker/stops"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}
	if !cfg.Redis.Enabled {
		fmt.Println("Worker needs Redis streams. Set REDIS_ENABLED=true to enable.")
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Stop Import Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	// 3. Stop store
	db, err := sqlstore.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open stop store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close stop store", zap.Error(err))
		}
	}()

	// 4. Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log, cfg.Redis.StreamMaxLen)

	// 5. Use case
	stopUC := usecase.NewStopUseCase(
		sqlstore.NewStopRepository(db, log),
		vbb.NewTransitClient(&cfg.Transport, log),
		cache.NewCacheRepository(redisClient),
		usecase.NewEventPublisher(streamRepo, log),
		log,
		usecase.StopUseCaseConfig{
			BaseURL:         cfg.Server.PublicBaseURL,
			SearchResults:   cfg.Transport.SearchResults,
			DepartureWindow: cfg.Transport.DepartureWindow,
			SearchCacheTTL:  cfg.Cache.SearchCacheTTL,
		},
	)

	// 6. Workers
	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	if err := workerManager.Register(stops.NewStopImportWorker(
		streamRepo,
		stopUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)); err != nil {
		log.Fatal("Failed to register worker", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// сначала даем воркерам дописать результат, затем отменяем контекст
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
