package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/hooklinehq/hookline/internal/adapters/postgres"
	"github.com/hooklinehq/hookline/internal/adapters/valkey"
	"github.com/hooklinehq/hookline/internal/core/usecases"
	"github.com/hooklinehq/hookline/internal/pkg/config"
	"github.com/hooklinehq/hookline/internal/workflows"
)

func main() {
	cfg, err := config.Load("hookline-digester")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	spotRepo := postgres.NewSpotCatalogRepo(db)
	catchRepo := postgres.NewCatchRepo(db)
	mapSvc := usecases.NewMapService(spotRepo, catchRepo, cache, cfg.Engine.MatchDistanceMiles)
	digestSvc := usecases.NewDigestService(mapSvc)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.SpotDigestWorkflow)
	w.RegisterActivity(&workflows.DigestActivities{
		Digests: digestSvc,
		Cache:   cache,
		// Notifier stays nil until a push provider is wired; sends are
		// logged instead.
	})

	log.Println("digest worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
