package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/usecases"
)

// --- Mock SpotCatalogRepository ---

type mockCatalogRepo struct {
	listFn       func(ctx context.Context) ([]domain.StaticSpot, error)
	getByIDFn    func(ctx context.Context, id string) (*domain.StaticSpot, error)
	findNearbyFn func(ctx context.Context, lat, lng, radius float64, limit int) ([]domain.StaticSpot, error)
}

func (m *mockCatalogRepo) Upsert(ctx context.Context, s *domain.StaticSpot) error        { return nil }
func (m *mockCatalogRepo) UpsertBatch(ctx context.Context, s []domain.StaticSpot) error  { return nil }
func (m *mockCatalogRepo) GetByID(ctx context.Context, id string) (*domain.StaticSpot, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockCatalogRepo) List(ctx context.Context) ([]domain.StaticSpot, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockCatalogRepo) FindNearby(ctx context.Context, lat, lng, radius float64, limit int) ([]domain.StaticSpot, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lng, radius, limit)
	}
	return nil, nil
}

// --- Mock CatchRepository ---

type mockCatchRepo struct {
	insertFn   func(ctx context.Context, c *domain.CatchRecord) error
	snapshotFn func(ctx context.Context) ([]domain.CatchRecord, error)
	recentFn   func(ctx context.Context, limit int) ([]domain.CatchRecord, error)
	getByIDFn  func(ctx context.Context, id string) (*domain.CatchRecord, error)
}

func (m *mockCatchRepo) Insert(ctx context.Context, c *domain.CatchRecord) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, c)
	}
	return nil
}
func (m *mockCatchRepo) InsertBatch(ctx context.Context, cs []domain.CatchRecord) error { return nil }
func (m *mockCatchRepo) GetByID(ctx context.Context, id string) (*domain.CatchRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockCatchRepo) Snapshot(ctx context.Context) ([]domain.CatchRecord, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx)
	}
	return nil, nil
}
func (m *mockCatchRepo) Recent(ctx context.Context, limit int) ([]domain.CatchRecord, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	store   map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}
func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.store[key] = value
	return nil
}
func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.store, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- Fixtures ---

func fixedTime() *time.Time {
	t := time.Date(2025, 6, 14, 6, 0, 0, 0, time.UTC)
	return &t
}

func fixtureCatalogue() []domain.StaticSpot {
	return []domain.StaticSpot{
		{
			ID:       "spot-dam",
			Name:     "Miller's Dam",
			Location: domain.GeoPoint{Lat: 40.0, Lng: -81.0},
			Species:  []string{"Largemouth Bass"},
		},
	}
}

func fixtureCatches() []domain.CatchRecord {
	return []domain.CatchRecord{
		{
			ID:         "c1",
			Species:    "Walleye",
			Weight:     "3 lb",
			Location:   &domain.GeoPoint{Lat: 40.001, Lng: -81.0},
			CapturedAt: fixedTime(),
		},
	}
}

// --- Tests ---

func TestMapService_AggregatedSpots(t *testing.T) {
	svc := usecases.NewMapService(
		&mockCatalogRepo{listFn: func(ctx context.Context) ([]domain.StaticSpot, error) {
			return fixtureCatalogue(), nil
		}},
		&mockCatchRepo{snapshotFn: func(ctx context.Context) ([]domain.CatchRecord, error) {
			return fixtureCatches(), nil
		}},
		nil, 0,
	)

	spots, err := svc.AggregatedSpots(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spots) != 1 {
		t.Fatalf("expected 1 spot, got %d", len(spots))
	}
	if spots[0].CatchCount != 1 {
		t.Errorf("expected the catch to match the dam, got count %d", spots[0].CatchCount)
	}
}

func TestMapService_CachesAggregation(t *testing.T) {
	listCalls := 0
	cache := newMockCache()
	svc := usecases.NewMapService(
		&mockCatalogRepo{listFn: func(ctx context.Context) ([]domain.StaticSpot, error) {
			listCalls++
			return fixtureCatalogue(), nil
		}},
		&mockCatchRepo{},
		cache, 0,
	)

	ctx := context.Background()
	if _, err := svc.AggregatedSpots(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AggregatedSpots(ctx); err != nil {
		t.Fatal(err)
	}
	if listCalls != 1 {
		t.Errorf("expected 1 catalogue load, got %d", listCalls)
	}

	svc.InvalidateCache(ctx)
	if _, err := svc.AggregatedSpots(ctx); err != nil {
		t.Fatal(err)
	}
	if listCalls != 2 {
		t.Errorf("expected recompute after invalidation, got %d loads", listCalls)
	}
}

func TestMapService_GetSpot_Unknown(t *testing.T) {
	svc := usecases.NewMapService(&mockCatalogRepo{}, &mockCatchRepo{}, nil, 0)

	spot, err := svc.GetSpot(context.Background(), "no-such-spot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spot != nil {
		t.Errorf("expected nil for unknown spot, got %+v", spot)
	}
}

func TestMapService_SpotCatches_UnknownIsEmpty(t *testing.T) {
	svc := usecases.NewMapService(&mockCatalogRepo{}, &mockCatchRepo{}, nil, 0)

	members, err := svc.SpotCatches(context.Background(), "no-such-spot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if members == nil || len(members) != 0 {
		t.Errorf("expected empty list, got %v", members)
	}
}

func TestMapService_SpotLeaderboards(t *testing.T) {
	svc := usecases.NewMapService(
		&mockCatalogRepo{listFn: func(ctx context.Context) ([]domain.StaticSpot, error) {
			return fixtureCatalogue(), nil
		}},
		&mockCatchRepo{snapshotFn: func(ctx context.Context) ([]domain.CatchRecord, error) {
			return fixtureCatches(), nil
		}},
		nil, 0,
	)

	boards, err := svc.SpotLeaderboards(context.Background(), "spot-dam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boards) != 1 || boards[0].Species != "Walleye" {
		t.Fatalf("unexpected boards: %+v", boards)
	}
	if boards[0].Entries[0].Pounds != 3 {
		t.Errorf("expected 3 lb entry, got %+v", boards[0].Entries[0])
	}
}

func TestMapService_SpeciesFilters(t *testing.T) {
	svc := usecases.NewMapService(
		&mockCatalogRepo{listFn: func(ctx context.Context) ([]domain.StaticSpot, error) {
			return fixtureCatalogue(), nil
		}},
		&mockCatchRepo{snapshotFn: func(ctx context.Context) ([]domain.CatchRecord, error) {
			return fixtureCatches(), nil
		}},
		nil, 0,
	)

	filters, err := svc.SpeciesFilters(context.Background(), map[string]bool{"Walleye": false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters["Walleye"] {
		t.Error("client toggle was reset")
	}
	if !filters["Largemouth Bass"] {
		t.Error("catalogue species should default to visible")
	}
}
