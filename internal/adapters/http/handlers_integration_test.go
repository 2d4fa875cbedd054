//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hooklinehq/hookline/internal/adapters/http"
	"github.com/hooklinehq/hookline/internal/adapters/postgres"
	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/core/usecases"
	"github.com/hooklinehq/hookline/internal/pkg/config"
)

// setupTestDB connects to the test database.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("hookline-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	return db
}

// setupTestDeps creates dependencies with real repos and no cache.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	spotRepo := postgres.NewSpotCatalogRepo(db)
	catchRepo := postgres.NewCatchRepo(db)

	mapSvc := usecases.NewMapService(spotRepo, catchRepo, nil, 0)
	return &http.Dependencies{
		Map:     mapSvc,
		Catches: usecases.NewCatchService(catchRepo, nil, mapSvc),
		Catalog: usecases.NewCatalogService(spotRepo, nil),
		DB:      db,
	}
}

// seedTestSpot inserts a catalogue spot.
func seedTestSpot(t *testing.T, db *postgres.DB, id, name string, lat, lng float64) {
	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO spots (id, name, location, species)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, id, name, lng, lat, []string{"largemouth bass"}); err != nil {
		t.Fatalf("seed spot: %v", err)
	}
}

// seedTestCatch inserts a located catch report.
func seedTestCatch(t *testing.T, db *postgres.DB, id, species string, lat, lng float64) {
	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO catches (id, species, location, created_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, now())
		ON CONFLICT (id) DO NOTHING
	`, id, species, lng, lat); err != nil {
		t.Fatalf("seed catch: %v", err)
	}
}

// TestMapSpots_Integration aggregates seeded data against a real database.
func TestMapSpots_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	stamp := time.Now().Format("20060102150405")
	spotID := "test-spot-" + stamp
	seedTestSpot(t, db, spotID, "Integration Dam", 40.0, -81.0)
	seedTestCatch(t, db, "test-catch-"+stamp, "walleye", 40.0001, -81.0)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/map/spots", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Spots []domain.AggregatedSpot `json:"spots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	var found *domain.AggregatedSpot
	for i := range result.Spots {
		if result.Spots[i].ID == spotID {
			found = &result.Spots[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("seeded spot %s missing from aggregation", spotID)
	}
	if found.CatchCount < 1 {
		t.Errorf("expected the nearby catch to match the seeded spot, got count %d", found.CatchCount)
	}
}

// TestNearbyCatalogSpots_Integration exercises the PostGIS radius query.
func TestNearbyCatalogSpots_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	stamp := time.Now().Format("20060102150405")
	seedTestSpot(t, db, "test-near-"+stamp, "Nearby Point", 39.5, -80.5)

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	url := fmt.Sprintf("/v1/catalog/spots/nearby?lat=%f&lng=%f&radius=1000", 39.5, -80.5)
	req := httptest.NewRequest("GET", url, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var spots []domain.StaticSpot
	if err := json.NewDecoder(resp.Body).Decode(&spots); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(spots) == 0 {
		t.Error("expected at least the seeded spot within 1 km")
	}
}

// TestReportCatch_Integration round-trips a catch through the API and repo.
func TestReportCatch_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	body := `{"species":"channel catfish","weight":"9 lb","angler_name":"integration","lat":39.9,"lng":-81.2}`
	req := httptest.NewRequest("POST", "/v1/catches", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var saved domain.CatchRecord
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	got, err := postgres.NewCatchRepo(db).GetByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil || got.Species != "channel catfish" {
		t.Errorf("catch not persisted: %+v", got)
	}
}
