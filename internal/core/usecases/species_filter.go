package usecases

import "github.com/hooklinehq/hookline/internal/core/domain"

// MergeSpeciesFilters derives the species filter toggles for the map UI.
// The merge is additive: it starts from the existing toggles (so a species
// that drops off the map keeps its setting and reappears with it later)
// and adds any newly-seen species as visible. It never resets a toggle.
func MergeSpeciesFilters(spots []domain.AggregatedSpot, existing map[string]bool) map[string]bool {
	filters := make(map[string]bool, len(existing))
	for species, visible := range existing {
		filters[species] = visible
	}
	for _, spot := range spots {
		for _, species := range spot.Species {
			if _, ok := filters[species]; !ok {
				filters[species] = true
			}
		}
	}
	return filters
}
