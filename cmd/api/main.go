package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hooklinehq/hookline/internal/adapters/http"
	natsadapter "github.com/hooklinehq/hookline/internal/adapters/nats"
	"github.com/hooklinehq/hookline/internal/adapters/postgres"
	"github.com/hooklinehq/hookline/internal/adapters/valkey"
	"github.com/hooklinehq/hookline/internal/core/ports"
	"github.com/hooklinehq/hookline/internal/core/usecases"
	"github.com/hooklinehq/hookline/internal/pkg/config"
	"github.com/hooklinehq/hookline/internal/pkg/logging"
	"github.com/hooklinehq/hookline/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("hookline-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(cfg.Telemetry.ServiceName, logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache is optional; a nil interface here means every map request
	// recomputes. Assign the interface only on success so the services
	// never see a typed-nil *valkey.Cache.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, running uncached", "error", err)
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS, same pattern: a nil interface disables event publishing.
	var pubSvc ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, catch events will not be published", "error", err)
	} else {
		pubSvc = pub
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	spotRepo := postgres.NewSpotCatalogRepo(db)
	catchRepo := postgres.NewCatchRepo(db)

	// Use cases
	mapSvc := usecases.NewMapService(spotRepo, catchRepo, cacheSvc, cfg.Engine.MatchDistanceMiles)
	catchSvc := usecases.NewCatchService(catchRepo, pubSvc, mapSvc)
	catalogSvc := usecases.NewCatalogService(spotRepo, cacheSvc)

	deps := &http.Dependencies{
		Map:     mapSvc,
		Catches: catchSvc,
		Catalog: catalogSvc,
		NATS:    natsConn,
		DB:      db,
		Cache:   cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Hookline API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.hookline.app",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
