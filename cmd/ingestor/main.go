package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hooklinehq/hookline/internal/adapters/postgres"
	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/pkg/config"
)

// ---------------------------------------------------------------------------
// Catalogue file types
// ---------------------------------------------------------------------------

type Catalogue struct {
	Source string      `json:"source"`
	Spots  []SpotEntry `json:"spots"`
}

type SpotEntry struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Lat         float64           `json:"lat"`
	Lng         float64           `json:"lng"`
	Species     []string          `json:"species,omitempty"`
	Regulation  *RegulationEntry  `json:"regulation,omitempty"`
	LatestCatch *LatestCatchEntry `json:"latest_catch,omitempty"`
}

type RegulationEntry struct {
	Description string `json:"description,omitempty"`
	BagLimit    string `json:"bag_limit,omitempty"`
}

type LatestCatchEntry struct {
	Species    string     `json:"species"`
	Weight     string     `json:"weight,omitempty"`
	Bait       string     `json:"bait,omitempty"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	cfg, err := config.Load("hookline-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Catalogue path: CLI arg beats config
	cataloguePath := cfg.Engine.CatalogPath
	if len(os.Args) > 1 {
		cataloguePath = os.Args[1]
	}

	data, err := readCatalogue(cataloguePath)
	if err != nil {
		log.Fatalf("read catalogue: %v", err)
	}

	var catalogue Catalogue
	if err := json.Unmarshal(data, &catalogue); err != nil {
		log.Fatalf("parse catalogue: %v", err)
	}

	log.Printf("Hookline Catalogue Ingestor — %d spots from %s", len(catalogue.Spots), catalogue.Source)

	spots := make([]domain.StaticSpot, 0, len(catalogue.Spots))
	skipped := 0
	for _, e := range catalogue.Spots {
		if e.Name == "" || (e.Lat == 0 && e.Lng == 0) {
			skipped++
			continue
		}

		id := e.ID
		if id == "" {
			id = "spot-" + uuid.NewString()
		}

		spot := domain.StaticSpot{
			ID:        id,
			Name:      e.Name,
			Location:  domain.GeoPoint{Lat: e.Lat, Lng: e.Lng},
			Species:   e.Species,
			CreatedAt: time.Now().UTC(),
		}
		if e.Regulation != nil {
			spot.Regulation = &domain.Regulation{
				Description: e.Regulation.Description,
				BagLimit:    e.Regulation.BagLimit,
			}
		}
		if e.LatestCatch != nil && e.LatestCatch.Species != "" {
			spot.LatestCatch = &domain.LatestCatchSummary{
				Species:    e.LatestCatch.Species,
				Weight:     e.LatestCatch.Weight,
				Bait:       e.LatestCatch.Bait,
				OccurredAt: e.LatestCatch.OccurredAt,
				Source:     domain.SpotKindStatic,
			}
		}
		spots = append(spots, spot)
	}

	repo := postgres.NewSpotCatalogRepo(db)
	if err := repo.UpsertBatch(ctx, spots); err != nil {
		log.Fatalf("upsert catalogue: %v", err)
	}

	if skipped > 0 {
		log.Printf("skipped %d entries without a name or coordinates", skipped)
	}
	log.Printf("ingestion complete: %d spots", len(spots))
}

// readCatalogue loads the catalogue from a local path or an http(s) URL.
func readCatalogue(path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		client := &http.Client{Timeout: 60 * time.Second}
		resp, err := client.Get(path)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, path)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(path)
}
