package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/pkg/metrics"
)

// MapSpotsHandler returns the aggregated map view: every catalogue spot plus
// the dynamic spots formed from unmatched catches.
func MapSpotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		spots, err := deps.Map.AggregatedSpots(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.AggregationRuns.Inc()
		metrics.AggregationDuration.Observe(time.Since(started).Seconds())

		dynamic := 0
		for i := range spots {
			if spots[i].Kind == domain.SpotKindDynamic {
				dynamic++
			}
		}
		metrics.DynamicSpotsFormed.Set(float64(dynamic))

		if raw := c.Query("species"); raw != "" {
			spots = filterSpotsBySpecies(spots, strings.Split(raw, ","))
		}

		return c.JSON(fiber.Map{
			"spots": spots,
			"count": len(spots),
		})
	}
}

// filterSpotsBySpecies keeps spots reporting at least one of the wanted
// species. Dynamic spots with no species list yet always pass through.
func filterSpotsBySpecies(spots []domain.AggregatedSpot, wanted []string) []domain.AggregatedSpot {
	want := make(map[string]bool, len(wanted))
	for _, s := range wanted {
		if s = strings.TrimSpace(s); s != "" {
			want[strings.ToLower(s)] = true
		}
	}
	if len(want) == 0 {
		return spots
	}

	out := spots[:0]
	for _, spot := range spots {
		if len(spot.Species) == 0 {
			out = append(out, spot)
			continue
		}
		for _, sp := range spot.Species {
			if want[strings.ToLower(sp)] {
				out = append(out, spot)
				break
			}
		}
	}
	return out
}

// MapSpotHandler returns a single aggregated spot by ID.
func MapSpotHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "spot id is required")
		}
		spot, err := deps.Map.GetSpot(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if spot == nil {
			return errNotFound(c, "spot not found")
		}
		return c.JSON(spot)
	}
}

// MapSpotCatchesHandler returns the catches pinned to an aggregated spot.
func MapSpotCatchesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "spot id is required")
		}
		catches, err := deps.Map.SpotCatches(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{
			"catches": catches,
			"count":   len(catches),
		})
	}
}

// MapSpotLeaderboardsHandler returns per-species heaviest-catch rankings for a spot.
func MapSpotLeaderboardsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "spot id is required")
		}
		boards, err := deps.Map.SpotLeaderboards(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{
			"leaderboards": boards,
			"count":        len(boards),
		})
	}
}

// MapSpeciesHandler returns the species filter set for the current map view.
// ?hidden=bass,walleye marks those species as toggled off.
func MapSpeciesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		existing := map[string]bool{}
		if raw := c.Query("hidden"); raw != "" {
			for _, sp := range strings.Split(raw, ",") {
				if trimmed := strings.TrimSpace(sp); trimmed != "" {
					existing[trimmed] = false
				}
			}
		}

		filters, err := deps.Map.SpeciesFilters(c.Context(), existing)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"species": filters})
	}
}

// ListCatalogSpotsHandler returns the curated spot catalogue, paginated.
func ListCatalogSpotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spots, err := deps.Catalog.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset, limit := parsePagination(c, 100, 200)
		total := len(spots)
		if offset >= total {
			spots = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			spots = spots[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: spots, Pagination: pg})
	}
}

// NearbyCatalogSpotsHandler returns catalogue spots within a radius of a point.
func NearbyCatalogSpotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lng := c.QueryFloat("lng", 0)
		radius := c.QueryFloat("radius", 805) // about half a mile
		limit := c.QueryInt("limit", 50)

		if lat == 0 || lng == 0 {
			return errBadRequest(c, "lat and lng are required")
		}
		if radius <= 0 || radius > 50000 {
			return errBadRequest(c, "radius must be between 1 and 50000 meters")
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		spots, err := deps.Catalog.FindNearby(c.Context(), lat, lng, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(spots)
	}
}

// GetCatalogSpotHandler returns a single catalogue spot by ID.
func GetCatalogSpotHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "spot id is required")
		}
		spot, err := deps.Catalog.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if spot == nil {
			return errNotFound(c, "spot not found")
		}
		return c.JSON(spot)
	}
}

// reportCatchRequest is the POST /v1/catches payload.
type reportCatchRequest struct {
	Species       string     `json:"species"`
	Weight        string     `json:"weight"`
	Caption       string     `json:"caption"`
	LocationLabel string     `json:"location_label"`
	AnglerName    string     `json:"angler_name"`
	Lat           *float64   `json:"lat"`
	Lng           *float64   `json:"lng"`
	CapturedAt    *time.Time `json:"captured_at"`
}

// ReportCatchHandler accepts a new catch report and publishes it to the feed.
func ReportCatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req reportCatchRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		rec := &domain.CatchRecord{
			Species:       strings.TrimSpace(req.Species),
			Weight:        strings.TrimSpace(req.Weight),
			Caption:       req.Caption,
			LocationLabel: strings.TrimSpace(req.LocationLabel),
			AnglerName:    strings.TrimSpace(req.AnglerName),
			CapturedAt:    req.CapturedAt,
		}
		if req.Lat != nil && req.Lng != nil {
			rec.Location = &domain.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
		}

		if err := deps.Catches.ReportCatch(c.Context(), rec); err != nil {
			return errBadRequest(c, err.Error())
		}

		metrics.CatchesIngested.WithLabelValues("api").Inc()
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// RecentCatchesHandler returns the most recent catch reports.
func RecentCatchesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 20)
		catches, err := deps.Catches.Recent(c.Context(), limit)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{
			"catches": catches,
			"count":   len(catches),
		})
	}
}

// GetCatchHandler returns a single catch report by ID.
func GetCatchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "catch id is required")
		}
		rec, err := deps.Catches.GetByID(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		if rec == nil {
			return errNotFound(c, "catch not found")
		}
		return c.JSON(rec)
	}
}

// FeedStats holds row counts for the ingested data.
type FeedStats struct {
	Spots       int    `json:"spots"`
	Catches     int    `json:"catches"`
	Located     int    `json:"located_catches"`
	LatestCatch string `json:"latest_catch,omitempty"`
}

// StatsHandler returns row counts from the spot and catch tables.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats FeedStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM spots),
				(SELECT count(*) FROM catches),
				(SELECT count(*) FROM catches WHERE location IS NOT NULL),
				COALESCE((SELECT max(created_at)::text FROM catches), '')
		`)
		if err := row.Scan(&stats.Spots, &stats.Catches, &stats.Located, &stats.LatestCatch); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}
