package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/ports"
)

// CatalogService exposes the curated static-spot catalogue.
type CatalogService struct {
	catalog ports.SpotCatalogRepository
	cache   ports.CacheService
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalog ports.SpotCatalogRepository, cache ports.CacheService) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache}
}

// List returns the full catalogue. The dataset is loaded once per session by
// the ingestor and effectively immutable, so it caches well.
func (s *CatalogService) List(ctx context.Context) ([]domain.StaticSpot, error) {
	cacheKey := "catalog:spots"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var spots []domain.StaticSpot
			if err := json.Unmarshal(data, &spots); err == nil {
				return spots, nil
			}
		}
	}

	spots, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(spots); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return spots, nil
}

// FindNearby returns catalogue spots within radiusMeters of the given point.
func (s *CatalogService) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.StaticSpot, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("catalog:nearby:%.4f:%.4f:%.0f:%d", lat, lng, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var spots []domain.StaticSpot
			if err := json.Unmarshal(data, &spots); err == nil {
				return spots, nil
			}
		}
	}

	spots, err := s.catalog.FindNearby(ctx, lat, lng, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// Cache for 5 minutes (the catalogue doesn't change mid-session)
	if s.cache != nil {
		if data, err := json.Marshal(spots); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return spots, nil
}

// GetByID returns a single catalogue spot.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.StaticSpot, error) {
	cacheKey := "catalog:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var spot domain.StaticSpot
			if err := json.Unmarshal(data, &spot); err == nil {
				return &spot, nil
			}
		}
	}

	spot, err := s.catalog.GetByID(ctx, id)
	if err != nil || spot == nil {
		return spot, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(spot); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return spot, nil
}
