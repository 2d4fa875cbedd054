package http

import (
	"github.com/nats-io/nats.go"

	"github.com/hooklinehq/hookline/internal/adapters/postgres"
	"github.com/hooklinehq/hookline/internal/adapters/valkey"
	"github.com/hooklinehq/hookline/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Map     *usecases.MapService
	Catches *usecases.CatchService
	Catalog *usecases.CatalogService
	NATS    *nats.Conn
	DB      *postgres.DB
	Cache   *valkey.Cache
}
