package usecases

import (
	"sort"

	"github.com/hooklinehq/hookline/internal/core/domain"
	"github.com/hooklinehq/hookline/internal/pkg/weight"
)

// leaderboardSize caps each species board at the top 5 catches.
const leaderboardSize = 5

// BuildLeaderboards groups catches by species and ranks them by parsed
// weight, heaviest first, capped at five rows per species. Catches whose
// weight label has no parseable number are excluded outright rather than
// ranked at zero. Weight ties keep encounter order, and the outer list is
// sorted by species name.
func BuildLeaderboards(catches []domain.CatchRecord) []domain.Leaderboard {
	bySpecies := make(map[string][]domain.RankedCatch)
	for _, c := range catches {
		if c.Species == "" {
			continue
		}
		pounds, ok := weight.ParsePounds(c.Weight)
		if !ok {
			continue
		}
		bySpecies[c.Species] = append(bySpecies[c.Species], domain.RankedCatch{
			CatchID:     c.ID,
			AnglerName:  c.AnglerName,
			WeightLabel: c.Weight,
			Pounds:      pounds,
		})
	}

	boards := make([]domain.Leaderboard, 0, len(bySpecies))
	for species, entries := range bySpecies {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Pounds > entries[j].Pounds
		})
		if len(entries) > leaderboardSize {
			entries = entries[:leaderboardSize]
		}
		boards = append(boards, domain.Leaderboard{Species: species, Entries: entries})
	}

	sort.Slice(boards, func(i, j int) bool {
		return boards[i].Species < boards[j].Species
	})
	return boards
}
