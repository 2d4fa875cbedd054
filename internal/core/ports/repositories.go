package ports

import (
	"context"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

// SpotCatalogRepository persists the curated static-spot catalogue.
type SpotCatalogRepository interface {
	Upsert(ctx context.Context, spot *domain.StaticSpot) error
	UpsertBatch(ctx context.Context, spots []domain.StaticSpot) error
	GetByID(ctx context.Context, id string) (*domain.StaticSpot, error)
	List(ctx context.Context) ([]domain.StaticSpot, error)
	FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.StaticSpot, error)
}

// CatchRepository persists crowd-sourced catch reports.
type CatchRepository interface {
	Insert(ctx context.Context, c *domain.CatchRecord) error
	InsertBatch(ctx context.Context, cs []domain.CatchRecord) error
	GetByID(ctx context.Context, id string) (*domain.CatchRecord, error)
	// Snapshot returns the full catch list in insertion order. The
	// aggregation engine recomputes from scratch on every call, so this is
	// the engine's whole view of the live data.
	Snapshot(ctx context.Context) ([]domain.CatchRecord, error)
	Recent(ctx context.Context, limit int) ([]domain.CatchRecord, error)
}
