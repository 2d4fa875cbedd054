package usecases

import (
	"testing"
	"time"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

func TestCatchesForSpot_PinBased(t *testing.T) {
	catches := []domain.CatchRecord{
		newCatch("c1", "Walleye", latOffset(40.0, 0.1), -81.0, baseTime),
		newCatch("c2", "Bluegill", latOffset(40.0, 0.2), -81.0, baseTime.Add(time.Hour)),
		newCatch("c3", "Crappie", 43.0, -85.0, baseTime),
	}
	spots := Aggregate(testCatalogue(), catches)
	dam := spots[0]

	members := CatchesForSpot(&dam, catches)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	ids := map[string]bool{members[0].ID: true, members[1].ID: true}
	if !ids["c1"] || !ids["c2"] {
		t.Errorf("unexpected membership: %v", ids)
	}
}

func TestCatchesForSpot_NilSpot(t *testing.T) {
	if got := CatchesForSpot(nil, nil); got != nil {
		t.Errorf("expected nil for nil spot, got %v", got)
	}
}

func TestCatchesForSpot_LegacyRadiusFallback(t *testing.T) {
	// A static spot recorded without pins falls back to distance checks.
	legacy := domain.AggregatedSpot{
		ID:         "spot-dam",
		Kind:       domain.SpotKindStatic,
		FromStatic: true,
		Location:   domain.GeoPoint{Lat: 40.0, Lng: -81.0},
	}
	catches := []domain.CatchRecord{
		newCatch("near", "Walleye", latOffset(40.0, 0.3), -81.0, baseTime),
		newCatch("far", "Walleye", latOffset(40.0, 1.0), -81.0, baseTime),
		{ID: "nowhere", Species: "Walleye"},
	}

	members := CatchesForSpot(&legacy, catches)
	if len(members) != 1 || members[0].ID != "near" {
		t.Errorf("expected only the nearby catch, got %v", members)
	}
}

func TestCatchesForSpot_PinlessDynamicIsEmpty(t *testing.T) {
	// Defensive branch: dynamic spots cannot exist without pins.
	dyn := domain.AggregatedSpot{
		ID:       "dyn-x",
		Kind:     domain.SpotKindDynamic,
		Location: domain.GeoPoint{Lat: 40.0, Lng: -81.0},
	}
	catches := []domain.CatchRecord{
		newCatch("c1", "Walleye", 40.0, -81.0, baseTime),
	}
	if got := CatchesForSpot(&dyn, catches); len(got) != 0 {
		t.Errorf("expected empty membership, got %v", got)
	}
}

func TestMergeSpeciesFilters(t *testing.T) {
	spots := []domain.AggregatedSpot{
		{Species: []string{"Walleye", "Bluegill"}},
		{Species: []string{"Crappie"}},
	}

	filters := MergeSpeciesFilters(spots, nil)
	for _, s := range []string{"Walleye", "Bluegill", "Crappie"} {
		if visible, ok := filters[s]; !ok || !visible {
			t.Errorf("species %s should default to visible", s)
		}
	}
}

func TestMergeSpeciesFilters_PreservesExistingToggles(t *testing.T) {
	spots := []domain.AggregatedSpot{
		{Species: []string{"Walleye", "Bluegill"}},
	}
	existing := map[string]bool{"Walleye": false}

	filters := MergeSpeciesFilters(spots, existing)
	if filters["Walleye"] {
		t.Error("existing toggle was reset")
	}
	if !filters["Bluegill"] {
		t.Error("new species should default to visible")
	}
}

func TestMergeSpeciesFilters_KeepsToggleForAbsentSpecies(t *testing.T) {
	existing := map[string]bool{"Muskellunge": false}

	// The only muskellunge spot dropped off the map; its toggle survives
	// so the species reappears hidden.
	spots := []domain.AggregatedSpot{
		{Species: []string{"Walleye"}},
	}

	filters := MergeSpeciesFilters(spots, existing)
	if visible, ok := filters["Muskellunge"]; !ok || visible {
		t.Errorf("toggle for absent species was dropped or reset: %v, %v", visible, ok)
	}
	if !filters["Walleye"] {
		t.Error("new species should default to visible")
	}
}
