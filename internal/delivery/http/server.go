package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/stop-registry/internal/config"
	"github.com/stop-registry/internal/delivery/http/handler"
	"github.com/stop-registry/internal/delivery/http/middleware"
	"github.com/stop-registry/internal/pkg/errors"
	"github.com/stop-registry/internal/pkg/utils"

	_ "github.com/stop-registry/docs"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	stopHandler    *handler.StopHandler
	profileHandler *handler.ProfileHandler
	healthHandler  *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	stopHandler *handler.StopHandler,
	profileHandler *handler.ProfileHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName: "Stop Registry",
		// генерация текста может занимать десятки секунд
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout + time.Duration(cfg.AI.RequestTimeout)*time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		stopHandler:    stopHandler,
		profileHandler: profileHandler,
		healthHandler:  healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	// Logger снаружи: в access-лог попадают и запросы с паникой
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check без лимита
	api.Get("/health", s.healthHandler.Health)

	api.Use(middleware.RateLimiter(s.config.RateLimit))

	requestTimeout := middleware.RequestTimeout(s.config.Server.RequestTimeout)
	// генерация текста получает дополнительно таймаут AI
	generationTimeout := middleware.RequestTimeout(
		s.config.Server.RequestTimeout + time.Duration(s.config.AI.RequestTimeout)*time.Second,
	)

	// Stop routes
	api.Put("/stops", requestTimeout, s.stopHandler.ImportStops)
	api.Post("/stops", requestTimeout, s.stopHandler.CreateStop)
	api.Get("/stops/:id", requestTimeout, s.stopHandler.GetStop)
	api.Patch("/stops/:id", requestTimeout, s.stopHandler.UpdateStop)
	api.Delete("/stops/:id", requestTimeout, s.stopHandler.DeleteStop)

	// Operator profiles and guide
	api.Get("/operator-profiles/:id", generationTimeout, s.profileHandler.GetOperatorProfiles)
	api.Get("/guide", generationTimeout, s.profileHandler.GetGuide)
}

// App - fiber приложение (тесты)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные в handler'ах (404 маршрута, 405, паника)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Int("status", e.Code), zap.Error(err))
			}
			return utils.SendError(c, errors.New("HTTP_ERROR", e.Message, e.Code))
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
