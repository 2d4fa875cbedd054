package domain

import (
	"time"
)

// SpotKind distinguishes curated catalogue spots from crowd-formed clusters.
type SpotKind string

const (
	SpotKindStatic  SpotKind = "static"
	SpotKindDynamic SpotKind = "dynamic"
)

// Regulation holds fishing-regulation text attached to a curated spot.
type Regulation struct {
	Description string `json:"description,omitempty"`
	BagLimit    string `json:"bag_limit,omitempty"`
}

// StaticSpot is a curated catalogue entry for a known fishing location.
// The engine never mutates it.
type StaticSpot struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Location    GeoPoint            `json:"location"`
	Species     []string            `json:"species,omitempty"`
	Regulation  *Regulation         `json:"regulation,omitempty"`
	LatestCatch *LatestCatchSummary `json:"latest_catch,omitempty"` // cached fallback, used when no live catch has matched
	CreatedAt   time.Time           `json:"created_at"`
}

// CatchRecord is one crowd-sourced catch report from the social feed.
// Everything except the species is optional; the engine treats missing
// fields as insufficient data, never as invalid data.
type CatchRecord struct {
	ID            string     `json:"id"`
	Species       string     `json:"species"`
	Weight        string     `json:"weight,omitempty"` // free text, e.g. "12 lb 4 oz"
	Caption       string     `json:"caption,omitempty"`
	LocationLabel string     `json:"location_label,omitempty"`
	Location      *GeoPoint  `json:"location,omitempty"`
	AnglerName    string     `json:"angler_name,omitempty"`
	CapturedAt    *time.Time `json:"captured_at,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// OccurredAt resolves a catch's occurrence time: captured-at, falling back
// to created-at, falling back to the zero time.
func (c *CatchRecord) OccurredAt() time.Time {
	if c.CapturedAt != nil {
		return *c.CapturedAt
	}
	if c.CreatedAt != nil {
		return *c.CreatedAt
	}
	return time.Time{}
}

// Pin records one member catch inside an aggregated spot.
type Pin struct {
	CatchID  string   `json:"catch_id"`
	Location GeoPoint `json:"location"`
}

// LatestCatchSummary is the display projection of a spot's most recent catch.
// Source tells callers whether it came from the curated catalogue cache or
// from a live catch report.
type LatestCatchSummary struct {
	Species    string     `json:"species"`
	Weight     string     `json:"weight,omitempty"`
	Bait       string     `json:"bait,omitempty"`        // catalogue fallback only
	AnglerName string     `json:"angler_name,omitempty"` // live catches only
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
	Source     SpotKind   `json:"source"`
}

// AggregatedSpot is one deduplicated map spot, recomputed on every
// aggregation run. Static spots keep the catalogue id; dynamic spots take a
// synthetic id anchored on the lexicographically-smallest member pin.
type AggregatedSpot struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Kind         SpotKind            `json:"kind"`
	FromStatic   bool                `json:"from_static"`
	Location     GeoPoint            `json:"location"` // fixed for static spots, running centroid for dynamic ones
	Species      []string            `json:"species,omitempty"`
	Regulation   *Regulation         `json:"regulation,omitempty"`
	CatchCount   int                 `json:"catch_count"`
	LatestCatch  *LatestCatchSummary `json:"latest_catch,omitempty"`
	Pins         []Pin               `json:"pins"`
	RadiusMeters *float64            `json:"aggregation_radius_meters,omitempty"` // set only once a catch has matched
}

// RankedCatch is one row of a species leaderboard.
type RankedCatch struct {
	CatchID     string  `json:"catch_id"`
	AnglerName  string  `json:"angler_name,omitempty"`
	WeightLabel string  `json:"weight_label"`
	Pounds      float64 `json:"pounds"`
}

// Leaderboard ranks the heaviest catches of one species at a spot.
type Leaderboard struct {
	Species string        `json:"species"`
	Entries []RankedCatch `json:"entries"`
}
