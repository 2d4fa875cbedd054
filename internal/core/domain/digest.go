package domain

import "time"

// SpotDigest is the daily summary pushed to anglers following a spot.
type SpotDigest struct {
	SpotID       string              `json:"spot_id"`
	SpotName     string              `json:"spot_name"`
	Date         time.Time           `json:"date"`
	CatchCount   int                 `json:"catch_count"`
	LatestCatch  *LatestCatchSummary `json:"latest_catch,omitempty"`
	Leaderboards []Leaderboard       `json:"leaderboards,omitempty"`
}
