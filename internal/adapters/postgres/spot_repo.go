package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

// SpotCatalogRepo implements ports.SpotCatalogRepository with pgx.
type SpotCatalogRepo struct {
	db *DB
}

// NewSpotCatalogRepo creates a new SpotCatalogRepo.
func NewSpotCatalogRepo(db *DB) *SpotCatalogRepo {
	return &SpotCatalogRepo{db: db}
}

const spotUpsertSQL = `
	INSERT INTO spots (id, name, location, species, regulation_description, regulation_bag_limit,
	                   latest_species, latest_weight, latest_bait)
	VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, location = EXCLUDED.location, species = EXCLUDED.species,
	    regulation_description = EXCLUDED.regulation_description,
	    regulation_bag_limit = EXCLUDED.regulation_bag_limit,
	    latest_species = EXCLUDED.latest_species,
	    latest_weight = EXCLUDED.latest_weight,
	    latest_bait = EXCLUDED.latest_bait
`

func spotUpsertArgs(s *domain.StaticSpot) []any {
	var regDesc, regBag string
	if s.Regulation != nil {
		regDesc = s.Regulation.Description
		regBag = s.Regulation.BagLimit
	}
	var latestSpecies, latestWeight, latestBait string
	if s.LatestCatch != nil {
		latestSpecies = s.LatestCatch.Species
		latestWeight = s.LatestCatch.Weight
		latestBait = s.LatestCatch.Bait
	}
	return []any{
		s.ID, s.Name, s.Location.Lng, s.Location.Lat, s.Species,
		regDesc, regBag, latestSpecies, latestWeight, latestBait,
	}
}

// Upsert inserts or updates a single catalogue spot.
func (r *SpotCatalogRepo) Upsert(ctx context.Context, s *domain.StaticSpot) error {
	_, err := r.db.Pool.Exec(ctx, spotUpsertSQL, spotUpsertArgs(s)...)
	return err
}

// UpsertBatch inserts many catalogue spots using pgx.Batch.
func (r *SpotCatalogRepo) UpsertBatch(ctx context.Context, spots []domain.StaticSpot) error {
	batch := &pgx.Batch{}
	for i := range spots {
		batch.Queue(spotUpsertSQL, spotUpsertArgs(&spots[i])...)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range spots {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

const spotSelectColumns = `
	id, name,
	ST_Y(location::geometry) as lat,
	ST_X(location::geometry) as lng,
	COALESCE(species, '{}'),
	COALESCE(regulation_description, ''), COALESCE(regulation_bag_limit, ''),
	COALESCE(latest_species, ''), COALESCE(latest_weight, ''), COALESCE(latest_bait, ''),
	created_at
`

func scanSpot(row pgx.Row) (*domain.StaticSpot, error) {
	var s domain.StaticSpot
	var regDesc, regBag, latestSpecies, latestWeight, latestBait string
	err := row.Scan(
		&s.ID, &s.Name, &s.Location.Lat, &s.Location.Lng, &s.Species,
		&regDesc, &regBag, &latestSpecies, &latestWeight, &latestBait,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if regDesc != "" || regBag != "" {
		s.Regulation = &domain.Regulation{Description: regDesc, BagLimit: regBag}
	}
	if latestSpecies != "" {
		s.LatestCatch = &domain.LatestCatchSummary{
			Species: latestSpecies,
			Weight:  latestWeight,
			Bait:    latestBait,
			Source:  domain.SpotKindStatic,
		}
	}
	return &s, nil
}

// GetByID returns a catalogue spot, or nil when unknown.
func (r *SpotCatalogRepo) GetByID(ctx context.Context, id string) (*domain.StaticSpot, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+spotSelectColumns+` FROM spots WHERE id = $1`, id)
	s, err := scanSpot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// List returns the full curated catalogue ordered by name.
func (r *SpotCatalogRepo) List(ctx context.Context) ([]domain.StaticSpot, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+spotSelectColumns+` FROM spots ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []domain.StaticSpot
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, err
		}
		spots = append(spots, *s)
	}
	return spots, rows.Err()
}

// FindNearby returns catalogue spots within radiusMeters using PostGIS ST_DWithin.
func (r *SpotCatalogRepo) FindNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.StaticSpot, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+spotSelectColumns+`,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance
		FROM spots
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lng, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []domain.StaticSpot
	for rows.Next() {
		var s domain.StaticSpot
		var regDesc, regBag, latestSpecies, latestWeight, latestBait string
		var dist float64
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Location.Lat, &s.Location.Lng, &s.Species,
			&regDesc, &regBag, &latestSpecies, &latestWeight, &latestBait,
			&s.CreatedAt, &dist,
		); err != nil {
			return nil, err
		}
		if regDesc != "" || regBag != "" {
			s.Regulation = &domain.Regulation{Description: regDesc, BagLimit: regBag}
		}
		if latestSpecies != "" {
			s.LatestCatch = &domain.LatestCatchSummary{
				Species: latestSpecies,
				Weight:  latestWeight,
				Bait:    latestBait,
				Source:  domain.SpotKindStatic,
			}
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}
