package scoring

import (
	"sort"

	"github.com/google/uuid"
)

// Standing is one row of a computed leaderboard.
type Standing struct {
	UserID uuid.UUID
	Points int
	Rank   int
}

// Rank seeds every user in population with zero points, credits winning
// bets, and sorts descending by points. The sort is stable over the
// population order, and equal point totals still receive distinct
// sequential ranks rather than shared ones.
func Rank(population []uuid.UUID, results []BetResult) []Standing {
	points := make(map[uuid.UUID]int, len(population))
	order := make([]uuid.UUID, 0, len(population))
	for _, id := range population {
		if _, seen := points[id]; seen {
			continue
		}
		points[id] = 0
		order = append(order, id)
	}

	for _, r := range results {
		if !r.Won {
			continue
		}
		if _, known := points[r.UserID]; known {
			points[r.UserID] += r.Points
		}
	}

	standings := make([]Standing, 0, len(order))
	for _, id := range order {
		standings = append(standings, Standing{UserID: id, Points: points[id]})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings
}
