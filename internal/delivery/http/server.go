package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/location-map/internal/config"
	"github.com/location-map/internal/delivery/http/handler"
	"github.com/location-map/internal/delivery/http/middleware"
	apperrors "github.com/location-map/internal/pkg/errors"
	"github.com/location-map/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	healthHandler   *handler.HealthHandler
	mapPageHandler  *handler.MapPageHandler
	locationHandler *handler.LocationHandler
	sessionHandler  *handler.SessionHandler
	positionHandler *handler.PositionHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthHandler *handler.HealthHandler,
	mapPageHandler *handler.MapPageHandler,
	locationHandler *handler.LocationHandler,
	sessionHandler *handler.SessionHandler,
	positionHandler *handler.PositionHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Location Map",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		healthHandler:   healthHandler,
		mapPageHandler:  mapPageHandler,
		locationHandler: locationHandler,
		sessionHandler:  sessionHandler,
		positionHandler: positionHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App возвращает fiber приложение, используется в тестах
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Map page
	s.app.Get("/", s.mapPageHandler.RenderMap)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.healthHandler.Health)

	// Locations
	api.Get("/locations", s.locationHandler.GetLocations)

	// Map sessions
	sessions := api.Group("/sessions")
	sessions.Post("/", s.sessionHandler.CreateSession)
	sessions.Get("/:id/scene", s.sessionHandler.GetScene)
	sessions.Get("/:id/patches", s.sessionHandler.GetPatches)
	sessions.Post("/:id/markers/:location_id/click", s.sessionHandler.ClickMarker)
	sessions.Post("/:id/zoom", s.sessionHandler.SetZoom)
	sessions.Delete("/:id", s.sessionHandler.CloseSession)

	// Device positions
	api.Post("/devices/:device_id/positions", s.positionHandler.PublishPosition)
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

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		if code == fiber.StatusInternalServerError {
			return utils.SendError(c, err)
		}
		return c.Status(code).JSON(utils.ErrorResponse{
			Error: apperrors.New("HTTP_ERROR", fe.Message, code),
		})
	}
}
