package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

// CatchRepo implements ports.CatchRepository with pgx.
type CatchRepo struct {
	db *DB
}

// NewCatchRepo creates a new CatchRepo.
func NewCatchRepo(db *DB) *CatchRepo {
	return &CatchRepo{db: db}
}

const catchInsertSQL = `
	INSERT INTO catches (id, species, weight, caption, location_label, location,
	                     angler_name, captured_at, created_at)
	VALUES ($1, $2, $3, $4, $5,
	        CASE WHEN $6::float8 IS NULL THEN NULL
	             ELSE ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography END,
	        $8, $9, COALESCE($10, now()))
	ON CONFLICT (id) DO NOTHING
`

func catchInsertArgs(c *domain.CatchRecord) []any {
	var lng, lat *float64
	if c.Location != nil {
		lng = &c.Location.Lng
		lat = &c.Location.Lat
	}
	return []any{
		c.ID, c.Species, c.Weight, c.Caption, c.LocationLabel,
		lng, lat, c.AnglerName, c.CapturedAt, c.CreatedAt,
	}
}

// Insert stores one catch report. Re-delivered events are ignored.
func (r *CatchRepo) Insert(ctx context.Context, c *domain.CatchRecord) error {
	_, err := r.db.Pool.Exec(ctx, catchInsertSQL, catchInsertArgs(c)...)
	return err
}

// InsertBatch stores many catch reports using pgx.Batch.
func (r *CatchRepo) InsertBatch(ctx context.Context, cs []domain.CatchRecord) error {
	batch := &pgx.Batch{}
	for i := range cs {
		batch.Queue(catchInsertSQL, catchInsertArgs(&cs[i])...)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range cs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

const catchSelectColumns = `
	id, species, COALESCE(weight, ''), COALESCE(caption, ''), COALESCE(location_label, ''),
	ST_Y(location::geometry) as lat,
	ST_X(location::geometry) as lng,
	COALESCE(angler_name, ''), captured_at, created_at
`

func scanCatch(row pgx.Row) (*domain.CatchRecord, error) {
	var c domain.CatchRecord
	var lat, lng *float64
	err := row.Scan(
		&c.ID, &c.Species, &c.Weight, &c.Caption, &c.LocationLabel,
		&lat, &lng, &c.AnglerName, &c.CapturedAt, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		c.Location = &domain.GeoPoint{Lat: *lat, Lng: *lng}
	}
	return &c, nil
}

// GetByID returns one catch report, or nil when unknown.
func (r *CatchRepo) GetByID(ctx context.Context, id string) (*domain.CatchRecord, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+catchSelectColumns+` FROM catches WHERE id = $1`, id)
	c, err := scanCatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// Snapshot returns the full catch list in insertion order. The aggregation
// engine sorts chronologically itself, so insertion order here only decides
// tie-breaks between equal timestamps.
func (r *CatchRepo) Snapshot(ctx context.Context) ([]domain.CatchRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+catchSelectColumns+` FROM catches ORDER BY inserted_seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var catches []domain.CatchRecord
	for rows.Next() {
		c, err := scanCatch(rows)
		if err != nil {
			return nil, err
		}
		catches = append(catches, *c)
	}
	return catches, rows.Err()
}

// Recent returns the newest catch reports.
func (r *CatchRepo) Recent(ctx context.Context, limit int) ([]domain.CatchRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+catchSelectColumns+` FROM catches ORDER BY created_at DESC NULLS LAST LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var catches []domain.CatchRecord
	for rows.Next() {
		c, err := scanCatch(rows)
		if err != nil {
			return nil, err
		}
		catches = append(catches, *c)
	}
	return catches, rows.Err()
}
