package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/ports"
)

// mapSpotsCacheKey caches one full aggregation result. The engine always
// recomputes from scratch; the cache only absorbs bursts of map refreshes.
const (
	mapSpotsCacheKey = "map:spots:v1"
	mapSpotsCacheTTL = 30 // seconds
)

// MapService produces the aggregated map: deduplicated spots, per-spot catch
// logs, leaderboards, and the species filter index.
type MapService struct {
	catalog ports.SpotCatalogRepository
	catches ports.CatchRepository
	cache   ports.CacheService

	matchDistanceMiles float64
}

// NewMapService creates a new MapService. matchDistanceMiles <= 0 selects
// the default radius.
func NewMapService(catalog ports.SpotCatalogRepository, catches ports.CatchRepository, cache ports.CacheService, matchDistanceMiles float64) *MapService {
	if matchDistanceMiles <= 0 {
		matchDistanceMiles = DefaultMatchDistanceMiles
	}
	return &MapService{
		catalog:            catalog,
		catches:            catches,
		cache:              cache,
		matchDistanceMiles: matchDistanceMiles,
	}
}

// AggregatedSpots returns the current deduplicated spot list, recomputing
// from the catalogue and catch snapshot on cache miss.
func (s *MapService) AggregatedSpots(ctx context.Context) ([]domain.AggregatedSpot, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, mapSpotsCacheKey); err == nil {
			var spots []domain.AggregatedSpot
			if err := json.Unmarshal(data, &spots); err == nil {
				return spots, nil
			}
		}
	}

	catalogue, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load spot catalogue: %w", err)
	}
	snapshot, err := s.catches.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catch snapshot: %w", err)
	}

	spots := Aggregate(catalogue, snapshot, WithMatchDistance(s.matchDistanceMiles))

	if s.cache != nil {
		if data, err := json.Marshal(spots); err == nil {
			_ = s.cache.Set(ctx, mapSpotsCacheKey, data, mapSpotsCacheTTL)
		}
	}

	return spots, nil
}

// GetSpot returns one aggregated spot by id, or nil when unknown.
func (s *MapService) GetSpot(ctx context.Context, id string) (*domain.AggregatedSpot, error) {
	spots, err := s.AggregatedSpots(ctx)
	if err != nil {
		return nil, err
	}
	for i := range spots {
		if spots[i].ID == id {
			return &spots[i], nil
		}
	}
	return nil, nil
}

// SpotCatches returns the catch records belonging to one aggregated spot.
// Unknown ids resolve to an empty list, not an error.
func (s *MapService) SpotCatches(ctx context.Context, spotID string) ([]domain.CatchRecord, error) {
	spot, err := s.GetSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if spot == nil {
		return []domain.CatchRecord{}, nil
	}

	snapshot, err := s.catches.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catch snapshot: %w", err)
	}
	members := CatchesForSpot(spot, snapshot, WithMatchDistance(s.matchDistanceMiles))
	if members == nil {
		members = []domain.CatchRecord{}
	}
	return members, nil
}

// SpotLeaderboards ranks one spot's members per species.
func (s *MapService) SpotLeaderboards(ctx context.Context, spotID string) ([]domain.Leaderboard, error) {
	members, err := s.SpotCatches(ctx, spotID)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboards(members), nil
}

// SpeciesFilters derives the species toggle map across all aggregated
// spots, preserving any flags the client already holds.
func (s *MapService) SpeciesFilters(ctx context.Context, existing map[string]bool) (map[string]bool, error) {
	spots, err := s.AggregatedSpots(ctx)
	if err != nil {
		return nil, err
	}
	return MergeSpeciesFilters(spots, existing), nil
}

// InvalidateCache drops the cached aggregation; called after new catches land.
func (s *MapService) InvalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, mapSpotsCacheKey)
	}
}
