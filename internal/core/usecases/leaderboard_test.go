package usecases

import (
	"testing"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

func weighted(id, species, label string) domain.CatchRecord {
	return domain.CatchRecord{ID: id, Species: species, Weight: label}
}

func TestBuildLeaderboards_RanksByParsedWeight(t *testing.T) {
	boards := BuildLeaderboards([]domain.CatchRecord{
		weighted("c1", "Largemouth Bass", "3 lb"),
		weighted("c2", "Largemouth Bass", "5 lb 2 oz"),
		weighted("c3", "Largemouth Bass", "8oz"),
	})

	if len(boards) != 1 {
		t.Fatalf("expected 1 board, got %d", len(boards))
	}
	b := boards[0]
	if b.Species != "Largemouth Bass" {
		t.Errorf("species = %s", b.Species)
	}
	wantOrder := []string{"c2", "c1", "c3"}
	for i, want := range wantOrder {
		if b.Entries[i].CatchID != want {
			t.Errorf("rank %d = %s, want %s", i, b.Entries[i].CatchID, want)
		}
	}
	if b.Entries[2].Pounds != 0.5 {
		t.Errorf("8oz parsed to %f, want 0.5", b.Entries[2].Pounds)
	}
}

func TestBuildLeaderboards_ExcludesUnparseableWeights(t *testing.T) {
	boards := BuildLeaderboards([]domain.CatchRecord{
		weighted("c1", "Walleye", "2 lb"),
		weighted("c2", "Walleye", "n/a"),
		weighted("c3", "Walleye", "1.5"),
	})

	if len(boards) != 1 {
		t.Fatalf("expected 1 board, got %d", len(boards))
	}
	if got := len(boards[0].Entries); got != 2 {
		t.Fatalf("expected exactly 2 ranked rows, got %d", got)
	}
	for _, e := range boards[0].Entries {
		if e.CatchID == "c2" {
			t.Error("unparseable weight must not appear in rankings")
		}
	}
}

func TestBuildLeaderboards_TopFiveCap(t *testing.T) {
	var catches []domain.CatchRecord
	labels := []string{"1 lb", "2 lb", "3 lb", "4 lb", "5 lb", "6 lb", "7 lb"}
	for i, l := range labels {
		catches = append(catches, weighted(string(rune('a'+i)), "Crappie", l))
	}

	boards := BuildLeaderboards(catches)
	if got := len(boards[0].Entries); got != 5 {
		t.Fatalf("expected 5 entries, got %d", got)
	}
	if boards[0].Entries[0].Pounds != 7 || boards[0].Entries[4].Pounds != 3 {
		t.Errorf("expected 7..3 lb range, got %f..%f",
			boards[0].Entries[0].Pounds, boards[0].Entries[4].Pounds)
	}
}

func TestBuildLeaderboards_StableOnTies(t *testing.T) {
	boards := BuildLeaderboards([]domain.CatchRecord{
		weighted("first", "Perch", "2 lb"),
		weighted("second", "Perch", "2 lb"),
	})
	entries := boards[0].Entries
	if entries[0].CatchID != "first" || entries[1].CatchID != "second" {
		t.Errorf("tie order not stable: %v", entries)
	}
}

func TestBuildLeaderboards_SpeciesSortedAlphabetically(t *testing.T) {
	boards := BuildLeaderboards([]domain.CatchRecord{
		weighted("c1", "Walleye", "2 lb"),
		weighted("c2", "Bluegill", "1 lb"),
		weighted("c3", "Crappie", "1 lb"),
	})

	want := []string{"Bluegill", "Crappie", "Walleye"}
	for i, w := range want {
		if boards[i].Species != w {
			t.Errorf("board %d species = %s, want %s", i, boards[i].Species, w)
		}
	}
}
