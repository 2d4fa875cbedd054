package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/hooklinehq/hookline/internal/adapters/nats"
	"github.com/hooklinehq/hookline/internal/adapters/postgres"
	"github.com/hooklinehq/hookline/internal/adapters/valkey"
	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/ports"
	"github.com/hooklinehq/hookline/internal/core/usecases"
	"github.com/hooklinehq/hookline/internal/pkg/config"
	"github.com/hooklinehq/hookline/internal/pkg/logging"
	"github.com/hooklinehq/hookline/internal/pkg/metrics"
)

// The feed worker drains catch reports published by the social feed and
// lands them in Postgres, then nudges connected map clients to refresh.
func main() {
	cfg, err := config.Load("hookline-feedworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(cfg.Telemetry.ServiceName, logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache, so freshly landed catches invalidate the map aggregation.
	// Assign the interface only on success so the map service never sees
	// a typed-nil *valkey.Cache.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, skipping map cache invalidation", "error", err)
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS: durable consumer in, broadcast out
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	catchRepo := postgres.NewCatchRepo(db)
	spotRepo := postgres.NewSpotCatalogRepo(db)
	mapSvc := usecases.NewMapService(spotRepo, catchRepo, cacheSvc, cfg.Engine.MatchDistanceMiles)
	// nil publisher: events already came off the bus, never re-publish
	catchSvc := usecases.NewCatchService(catchRepo, nil, mapSvc)

	err = sub.SubscribeCatchReports(ctx, func(ctx context.Context, c *domain.CatchRecord) error {
		if err := catchSvc.ProcessCatchEvent(ctx, c); err != nil {
			slog.Error("process catch event", "catch_id", c.ID, "error", err)
			return err
		}
		metrics.CatchesIngested.WithLabelValues("event").Inc()
		slog.Info("catch landed", "catch_id", c.ID, "species", c.Species)

		// Tell live map clients to refresh
		note, _ := json.Marshal(map[string]string{
			"type":     "catch_reported",
			"catch_id": c.ID,
			"species":  c.Species,
		})
		_ = pub.PublishBroadcast(ctx, note)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("feed worker started", "nats", cfg.NATS.URL)

	// Periodically export DB pool stats
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())
	cancel()
	// Let in-flight handlers finish before the NATS drain
	time.Sleep(2 * time.Second)
}
