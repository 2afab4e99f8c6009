// Package scoring settles bets once the final outcome is known. It is
// pure: it evaluates a snapshot of pending bets against the entered
// outcome and reports per-bet results, winner groupings for the admin
// preview, and ranked standings. Persisting the verdicts is the caller's
// job.
package scoring

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/timefmt"
)

// WinPoints is the flat award for any winning bet, regardless of type,
// threshold, or distance.
const WinPoints = 1

// Outcome carries the two admin-entered result values.
type Outcome struct {
	FinalTimeSeconds int
	Vomit            bool
}

// BetResult is the verdict for a single bet.
type BetResult struct {
	BetID    uuid.UUID
	UserID   uuid.UUID
	Type     domain.BetType
	Won      bool
	Points   int
	Distance int // exact_time_guess only: |guess - final|
}

// Settle evaluates every bet against the outcome. Over/under and vomit
// bets are scored independently; exact-time guesses compete against each
// other, and every guess tied at the minimum distance wins. Results come
// back in input order.
func Settle(bets []domain.Bet, out Outcome) []BetResult {
	results := make([]BetResult, 0, len(bets))

	minDistance := -1
	for _, bet := range bets {
		res := BetResult{BetID: bet.ID, UserID: bet.UserID, Type: bet.Type}

		switch bet.Type {
		case domain.BetTypeTimeOverUnder:
			res.Won = scoreOverUnder(bet.Payload, out.FinalTimeSeconds)
		case domain.BetTypeExactTimeGuess:
			res.Distance = abs(bet.Payload.GuessedTimeSeconds - out.FinalTimeSeconds)
			if minDistance < 0 || res.Distance < minDistance {
				minDistance = res.Distance
			}
		case domain.BetTypeVomitProp:
			res.Won = scoreVomitProp(bet.Payload, out.Vomit)
		}

		results = append(results, res)
	}

	// Second pass: exact guesses at the minimum distance share the win.
	for i := range results {
		if results[i].Type == domain.BetTypeExactTimeGuess {
			results[i].Won = results[i].Distance == minDistance
		}
		if results[i].Won {
			results[i].Points = WinPoints
		}
	}

	return results
}

// Wins iff the final time is strictly on the bet's side of the threshold;
// landing exactly on the threshold loses in both directions.
func scoreOverUnder(p domain.BetPayload, finalTime int) bool {
	if p.Direction == domain.DirectionOver {
		return finalTime > p.ThresholdSeconds
	}
	return finalTime < p.ThresholdSeconds
}

func scoreVomitProp(p domain.BetPayload, vomit bool) bool {
	if p.Prediction == domain.PredictionYes {
		return vomit
	}
	return !vomit
}

// WinnerGroup summarizes the winners of one bet type for the admin
// preview.
type WinnerGroup struct {
	BetType domain.BetType `json:"bet_type"`
	Users   []string       `json:"users"`
	Points  int            `json:"points"`
	Details string         `json:"details"`
}

// WinnerGroups builds the preview's winners-by-type summary. Bet types
// with no winners are omitted.
func WinnerGroups(results []BetResult, usernames map[uuid.UUID]string, out Outcome) []WinnerGroup {
	var groups []WinnerGroup

	if users := winners(results, domain.BetTypeTimeOverUnder, usernames); len(users) > 0 {
		groups = append(groups, WinnerGroup{
			BetType: domain.BetTypeTimeOverUnder,
			Users:   users,
			Points:  WinPoints,
			Details: fmt.Sprintf("Final time: %s", timefmt.Format(out.FinalTimeSeconds)),
		})
	}

	if users := winners(results, domain.BetTypeExactTimeGuess, usernames); len(users) > 0 {
		minDistance := 0
		for _, r := range results {
			if r.Type == domain.BetTypeExactTimeGuess && r.Won {
				minDistance = r.Distance
				break
			}
		}
		groups = append(groups, WinnerGroup{
			BetType: domain.BetTypeExactTimeGuess,
			Users:   users,
			Points:  WinPoints,
			Details: fmt.Sprintf("Closest guess: %s (%ds off)", strings.Join(users, ", "), minDistance),
		})
	}

	if users := winners(results, domain.BetTypeVomitProp, usernames); len(users) > 0 {
		details := "Vomit outcome: no"
		if out.Vomit {
			details = "Vomit outcome: yes"
		}
		groups = append(groups, WinnerGroup{
			BetType: domain.BetTypeVomitProp,
			Users:   users,
			Points:  WinPoints,
			Details: details,
		})
	}

	return groups
}

func winners(results []BetResult, betType domain.BetType, usernames map[uuid.UUID]string) []string {
	var users []string
	for _, r := range results {
		if r.Type == betType && r.Won {
			users = append(users, usernames[r.UserID])
		}
	}
	return users
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
