package main

// @title Stop Registry API
// @version 1.0.0
// @description Реестр остановок общественного транспорта. Остановки импортируются у провайдера
// @description транспортных данных, при чтении обогащаются ближайшим отправлением и ссылками
// @description на соседние по id остановки.

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/config"
	httpDelivery "github.com/stop-registry/internal/delivery/http"
	"github.com/stop-registry/internal/delivery/http/handler"
	"github.com/stop-registry/internal/domain/repository"
	"github.com/stop-registry/internal/infrastructure/gemini"
	"github.com/stop-registry/internal/infrastructure/vbb"
	"github.com/stop-registry/internal/pkg/logger"
	"github.com/stop-registry/internal/repository/cache"
	redisRepo "github.com/stop-registry/internal/repository/redis"
	"github.com/stop-registry/internal/repository/sqlstore"
	"github.com/stop-registry/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Stop Registry")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 3. Connect to the stop store
	db, err := sqlstore.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open stop store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close stop store", zap.Error(err))
		}
	}()

	checks := map[string]handler.HealthChecker{"database": db}

	// 4. Redis (опционально): кэш поиска и справок, события остановок
	var (
		cacheRepo repository.CacheRepository
		events    *usecase.EventPublisher
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()

		cacheRepo = cache.NewCacheRepository(redisClient)
		events = usecase.NewEventPublisher(redisRepo.NewStreamRepository(redisClient.Client(), log, cfg.Redis.StreamMaxLen), log)
		checks["redis"] = redisClient
		log.Info("Redis connected")
	} else {
		log.Info("Redis disabled: no cache, no stop events")
	}

	// 5. External services
	transitRepo := vbb.NewTransitClient(&cfg.Transport, log)
	textRepo := gemini.NewGeminiClient(&cfg.AI, log)
	if cfg.AI.APIKey == "" {
		log.Warn("GOOGLE_API_KEY is empty, operator profiles and guide will fail")
	}

	// 6. Initialize Use Cases
	stopUC := usecase.NewStopUseCase(
		sqlstore.NewStopRepository(db, log),
		transitRepo,
		cacheRepo,
		events,
		log,
		usecase.StopUseCaseConfig{
			BaseURL:         cfg.Server.PublicBaseURL,
			SearchResults:   cfg.Transport.SearchResults,
			DepartureWindow: cfg.Transport.DepartureWindow,
			SearchCacheTTL:  cfg.Cache.SearchCacheTTL,
		},
	)

	profileUC := usecase.NewProfileUseCase(
		sqlstore.NewStopRepository(db, log),
		transitRepo,
		textRepo,
		cacheRepo,
		log,
		cfg.Transport.ProfileWindow,
		cfg.Cache.ProfileCacheTTL,
	)

	log.Info("Use cases initialized")

	// 7. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewStopHandler(stopUC, log),
		handler.NewProfileHandler(profileUC, log),
		handler.NewHealthHandler(checks, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("public_base_url", cfg.Server.PublicBaseURL),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
