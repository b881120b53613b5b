package main

// @title Location Map API
// @version 1.0.0
// @description Карта локаций из таблицы Supabase "Locations" с маркером текущей позиции устройства.
// @description
// @description Основные возможности:
// @description - Список локаций с нормализованными координатами
// @description - Сессии карты: декларативная сцена, патчи, клик по маркеру, ручной зум
// @description - Приём позиций устройств и слежение за ними

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

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

	_ "github.com/location-map/docs"
	"github.com/location-map/internal/config"
	httpDelivery "github.com/location-map/internal/delivery/http"
	"github.com/location-map/internal/delivery/http/handler"
	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	"github.com/location-map/internal/infrastructure/supabase"
	"github.com/location-map/internal/mapview"
	"github.com/location-map/internal/pkg/logger"
	"github.com/location-map/internal/repository/postgres"
	redisRepo "github.com/location-map/internal/repository/redis"
	"github.com/location-map/internal/usecase"
	"github.com/location-map/internal/worker"
	"github.com/location-map/internal/worker/session"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Location Map")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("locations_source", cfg.Supabase.Source),
		zap.String("tracking_mode", cfg.Geo.TrackingMode),
	)

	healthHandler := handler.NewHealthHandler(log)

	// 3. Location store
	var locationRepo repository.LocationRepository
	switch cfg.Supabase.Source {
	case config.SourcePostgres:
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.Health(ctx)
		cancel()
		if err != nil {
			log.Fatal("PostgreSQL health check failed", zap.Error(err))
		}
		locationRepo = postgres.NewLocationRepository(db)
		healthHandler.Register("postgres", db)
		log.Info("PostgreSQL connected")
	default:
		client, err := supabase.NewClient(&cfg.Supabase, log)
		if err != nil {
			log.Fatal("Failed to create Supabase client", zap.Error(err))
		}
		locationRepo = supabase.NewLocationRepository(client)
		log.Info("Supabase REST client initialized")
	}

	// 4. Position streams. Без Redis карта работает без слежения за позицией.
	var (
		positionSource    repository.PositionSource
		positionPublisher repository.PositionPublisher
	)
	redisClient, err := redisRepo.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, live position tracking disabled", zap.Error(err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		stream := redisRepo.NewPositionStream(redisClient.Client(), redisClient.Subscriber(), log)
		positionSource = stream
		positionPublisher = stream
		healthHandler.Register("redis", redisClient)
	}

	// 5. Initialize Use Cases
	mode, ok := mapview.ParseTrackingMode(cfg.Geo.TrackingMode)
	if !ok {
		log.Fatal("Unknown tracking mode", zap.String("tracking_mode", cfg.Geo.TrackingMode))
	}

	locationUC := usecase.NewLocationUseCase(locationRepo, log)
	sessionUC := usecase.NewSessionUseCase(locationUC, positionSource, usecase.SessionSettings{
		Mode: mode,
		WatchOptions: domain.WatchOptions{
			HighAccuracy: cfg.Geo.HighAccuracy,
			MaximumAge:   cfg.Geo.MaximumAge,
			Timeout:      cfg.Geo.Timeout,
		},
		LinkLabel:   cfg.Map.LinkLabel,
		DefaultZoom: cfg.Map.DefaultZoom,
		IdleTTL:     cfg.Session.IdleTTL,
	}, log)
	positionUC := usecase.NewPositionUseCase(positionPublisher, log)

	log.Info("Use cases initialized")

	// 6. Background workers
	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(session.NewReaperWorker(sessionUC, cfg.Session.ReapInterval, log))

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Initialize HTTP Handlers
	mapPageHandler, err := handler.NewMapPageHandler(cfg.Map)
	if err != nil {
		log.Fatal("Failed to load map page template", zap.Error(err))
	}
	locationHandler := handler.NewLocationHandler(locationUC, log)
	sessionHandler := handler.NewSessionHandler(sessionUC, log)
	positionHandler := handler.NewPositionHandler(positionUC, log)

	log.Info("HTTP handlers initialized")

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		healthHandler,
		mapPageHandler,
		locationHandler,
		sessionHandler,
		positionHandler,
	)

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := workerManager.Stop(); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}
	workerCancel()

	// Unmount all map views before closing Redis
	sessionUC.CloseAll()

	log.Info("Server stopped successfully")
}
