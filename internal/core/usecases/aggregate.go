package usecases

import (
	"fmt"
	"sort"
	"time"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/pkg/geospatial"
)

// DefaultMatchDistanceMiles is the radius below which a catch belongs to a
// spot. Product settled on 0.5 mi; it stays tunable per call and via config.
const DefaultMatchDistanceMiles = 0.5

// dynamicRegulation is the placeholder regulation attached to crowd-formed spots.
var dynamicRegulation = domain.Regulation{Description: "User reported location"}

// AggregateOption tunes a single aggregation run.
type AggregateOption func(*aggregateConfig)

type aggregateConfig struct {
	matchDistanceMiles float64
}

// WithMatchDistance overrides the matching radius in miles.
func WithMatchDistance(miles float64) AggregateOption {
	return func(cfg *aggregateConfig) {
		if miles > 0 {
			cfg.matchDistanceMiles = miles
		}
	}
}

// Aggregate folds the catch snapshot into the static catalogue and returns
// the deduplicated map spot list.
//
// Catches carrying coordinates are processed in chronological order
// (captured-at, then created-at, then the zero time; ties keep input order).
// Each catch lands in at most one bucket: the nearest static spot within the
// matching radius wins, then the nearest dynamic cluster's current centroid,
// and otherwise the catch seeds a new dynamic cluster anchored at its own
// coordinates. Dynamic centroids are a running mean of member coordinates;
// earlier members are never reassigned, so cluster shape depends on arrival
// order. Catches without coordinates are skipped.
//
// Every static spot emits exactly one aggregated spot even with zero
// matches. Dynamic spots exist only when non-empty by construction.
func Aggregate(spots []domain.StaticSpot, catches []domain.CatchRecord, opts ...AggregateOption) []domain.AggregatedSpot {
	cfg := aggregateConfig{matchDistanceMiles: DefaultMatchDistanceMiles}
	for _, opt := range opts {
		opt(&cfg)
	}

	statics := make([]*staticBucket, len(spots))
	for i := range spots {
		statics[i] = newStaticBucket(&spots[i])
	}

	located := make([]domain.CatchRecord, 0, len(catches))
	for _, c := range catches {
		if c.Location != nil {
			located = append(located, c)
		}
	}
	// Stable sort so that equal timestamps keep input order; the latest-catch
	// rule below replaces on >=, so the later-arriving report wins exact ties.
	sort.SliceStable(located, func(i, j int) bool {
		return located[i].OccurredAt().Before(located[j].OccurredAt())
	})

	var dynamics []*dynamicBucket
	for i := range located {
		c := &located[i]

		if b := nearestStatic(statics, c.Location, cfg.matchDistanceMiles); b != nil {
			b.absorb(c)
			continue
		}
		if b := nearestDynamic(dynamics, c.Location, cfg.matchDistanceMiles); b != nil {
			b.absorb(c)
			continue
		}
		dynamics = append(dynamics, newDynamicBucket(c))
	}

	radiusMeters := geospatial.MilesToMeters(cfg.matchDistanceMiles)
	out := make([]domain.AggregatedSpot, 0, len(statics)+len(dynamics))
	for _, b := range statics {
		out = append(out, b.emit(radiusMeters))
	}
	for _, b := range dynamics {
		out = append(out, b.emit(radiusMeters))
	}
	return out
}

// nearestStatic returns the closest static bucket within the threshold, or nil.
func nearestStatic(buckets []*staticBucket, p *domain.GeoPoint, threshold float64) *staticBucket {
	var best *staticBucket
	bestDist := 0.0
	for _, b := range buckets {
		d := geospatial.DistanceMiles(p.Lat, p.Lng, b.spot.Location.Lat, b.spot.Location.Lng)
		if d <= threshold && (best == nil || d < bestDist) {
			best = b
			bestDist = d
		}
	}
	return best
}

// nearestDynamic compares against each cluster's current centroid, which
// moves as members accumulate.
func nearestDynamic(buckets []*dynamicBucket, p *domain.GeoPoint, threshold float64) *dynamicBucket {
	var best *dynamicBucket
	bestDist := 0.0
	for _, b := range buckets {
		d := geospatial.DistanceMiles(p.Lat, p.Lng, b.centroid.Lat, b.centroid.Lng)
		if d <= threshold && (best == nil || d < bestDist) {
			best = b
			bestDist = d
		}
	}
	return best
}

// speciesSet keeps a species union in first-seen order.
type speciesSet struct {
	seen  map[string]struct{}
	items []string
}

func newSpeciesSet(initial []string) *speciesSet {
	s := &speciesSet{seen: make(map[string]struct{}, len(initial))}
	for _, sp := range initial {
		s.add(sp)
	}
	return s
}

func (s *speciesSet) add(sp string) {
	if sp == "" {
		return
	}
	if _, ok := s.seen[sp]; ok {
		return
	}
	s.seen[sp] = struct{}{}
	s.items = append(s.items, sp)
}

// latestTracker applies the latest-catch tie rule: a live catch replaces the
// stored summary when its occurrence time is >= the stored one, so the
// most-recently-processed catch wins exact ties.
type latestTracker struct {
	summary  *domain.LatestCatchSummary
	at       time.Time
	haveLive bool
}

func (l *latestTracker) consider(c *domain.CatchRecord) {
	occ := c.OccurredAt()
	if l.haveLive && occ.Before(l.at) {
		return
	}
	l.summary = liveSummary(c)
	l.at = occ
	l.haveLive = true
}

func liveSummary(c *domain.CatchRecord) *domain.LatestCatchSummary {
	s := &domain.LatestCatchSummary{
		Species:    c.Species,
		Weight:     c.Weight,
		AnglerName: c.AnglerName,
		Source:     domain.SpotKindDynamic,
	}
	if occ := c.OccurredAt(); !occ.IsZero() {
		t := occ
		s.OccurredAt = &t
	}
	return s
}

// staticBucket accumulates catches against a curated spot's fixed coordinates.
type staticBucket struct {
	spot    *domain.StaticSpot
	species *speciesSet
	pins    []domain.Pin
	count   int
	latest  latestTracker
}

func newStaticBucket(spot *domain.StaticSpot) *staticBucket {
	return &staticBucket{
		spot:    spot,
		species: newSpeciesSet(spot.Species),
		pins:    []domain.Pin{},
	}
}

func (b *staticBucket) absorb(c *domain.CatchRecord) {
	b.count++
	b.species.add(c.Species)
	b.pins = append(b.pins, domain.Pin{CatchID: c.ID, Location: *c.Location})
	b.latest.consider(c)
}

func (b *staticBucket) emit(radiusMeters float64) domain.AggregatedSpot {
	spot := domain.AggregatedSpot{
		ID:         b.spot.ID,
		Name:       b.spot.Name,
		Kind:       domain.SpotKindStatic,
		FromStatic: true,
		Location:   b.spot.Location,
		Species:    b.species.items,
		Regulation: b.spot.Regulation,
		CatchCount: b.count,
		Pins:       b.pins,
	}

	if b.latest.haveLive {
		spot.LatestCatch = b.latest.summary
	} else if b.spot.LatestCatch != nil {
		// Catalogue fallback, shown only until a live catch matches.
		fallback := *b.spot.LatestCatch
		fallback.Source = domain.SpotKindStatic
		spot.LatestCatch = &fallback
	}

	if len(b.pins) > 0 {
		r := radiusMeters
		spot.RadiusMeters = &r
	}
	return spot
}

// dynamicBucket is a crowd-formed cluster with a drifting centroid.
type dynamicBucket struct {
	name        string
	placeholder bool
	centroid    domain.GeoPoint
	sumLat      float64
	sumLng      float64
	count       int
	species     *speciesSet
	pins        []domain.Pin
	latest      latestTracker
}

func newDynamicBucket(c *domain.CatchRecord) *dynamicBucket {
	b := &dynamicBucket{
		name:        c.LocationLabel,
		placeholder: c.LocationLabel == "",
		centroid:    *c.Location,
		sumLat:      c.Location.Lat,
		sumLng:      c.Location.Lng,
		count:       1,
		species:     newSpeciesSet(nil),
		pins:        []domain.Pin{{CatchID: c.ID, Location: *c.Location}},
	}
	if b.placeholder {
		b.name = fmt.Sprintf("Catch near %.4f, %.4f", c.Location.Lat, c.Location.Lng)
	}
	b.species.add(c.Species)
	b.latest.consider(c)
	return b
}

func (b *dynamicBucket) absorb(c *domain.CatchRecord) {
	b.count++
	b.species.add(c.Species)
	b.pins = append(b.pins, domain.Pin{CatchID: c.ID, Location: *c.Location})
	b.latest.consider(c)

	b.sumLat += c.Location.Lat
	b.sumLng += c.Location.Lng
	b.centroid = domain.GeoPoint{
		Lat: b.sumLat / float64(b.count),
		Lng: b.sumLng / float64(b.count),
	}

	// Names improve opportunistically but never downgrade: a real location
	// label replaces a synthetic "Catch near ..." placeholder.
	if b.placeholder && c.LocationLabel != "" {
		b.name = c.LocationLabel
		b.placeholder = false
	}
}

func (b *dynamicBucket) emit(radiusMeters float64) domain.AggregatedSpot {
	// Anchor the id on the smallest pin id so it stays stable across runs
	// even though centroid and name depend on arrival order.
	anchor := b.pins[0].CatchID
	for _, p := range b.pins[1:] {
		if p.CatchID < anchor {
			anchor = p.CatchID
		}
	}

	reg := dynamicRegulation
	r := radiusMeters
	return domain.AggregatedSpot{
		ID:           "dyn-" + anchor,
		Name:         b.name,
		Kind:         domain.SpotKindDynamic,
		FromStatic:   false,
		Location:     b.centroid,
		Species:      b.species.items,
		Regulation:   &reg,
		CatchCount:   b.count,
		LatestCatch:  b.latest.summary,
		Pins:         b.pins,
		RadiusMeters: &r,
	}
}
