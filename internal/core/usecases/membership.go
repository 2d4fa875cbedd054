package usecases

import (
	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/pkg/geospatial"
)

// CatchesForSpot returns the catch records belonging to one aggregated spot.
//
// Spots produced by Aggregate carry pins, so membership is an exact id-set
// filter and no distance math is repeated. Static spots built by older code
// paths may arrive without pins; for those only, membership is recomputed by
// radius against the spot's fixed coordinates. A pinless dynamic spot cannot
// exist by construction and yields an empty list.
func CatchesForSpot(spot *domain.AggregatedSpot, catches []domain.CatchRecord, opts ...AggregateOption) []domain.CatchRecord {
	if spot == nil {
		return nil
	}

	if len(spot.Pins) > 0 {
		ids := make(map[string]struct{}, len(spot.Pins))
		for _, p := range spot.Pins {
			ids[p.CatchID] = struct{}{}
		}

		members := make([]domain.CatchRecord, 0, len(spot.Pins))
		for _, c := range catches {
			if _, ok := ids[c.ID]; ok {
				members = append(members, c)
			}
		}
		return members
	}

	if spot.Kind != domain.SpotKindStatic {
		return nil
	}

	// Compatibility shim for legacy static spots recorded without pins.
	cfg := aggregateConfig{matchDistanceMiles: DefaultMatchDistanceMiles}
	for _, opt := range opts {
		opt(&cfg)
	}

	var members []domain.CatchRecord
	for _, c := range catches {
		if c.Location == nil {
			continue
		}
		d := geospatial.DistanceMiles(c.Location.Lat, c.Location.Lng, spot.Location.Lat, spot.Location.Lng)
		if d <= cfg.matchDistanceMiles {
			members = append(members, c)
		}
	}
	return members
}
