// Package consensus decides when a calendar date works for the whole
// group. It is pure: callers hand it a snapshot of availability records
// and the current user set, and it never touches storage.
package consensus

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/beermile/backend/internal/dateutil"
	"github.com/beermile/backend/internal/domain"
)

// Holds reports whether every known user has explicitly marked the date
// available. A missing record counts against consensus even though it is
// distinct from an explicit "no". Zero users never reach consensus.
func Holds(allUserIDs []uuid.UUID, records []domain.AvailabilityRecord) bool {
	if len(allUserIDs) == 0 {
		return false
	}

	available := make(map[uuid.UUID]struct{}, len(records))
	for _, rec := range records {
		if rec.IsAvailable {
			available[rec.UserID] = struct{}{}
		}
	}

	for _, id := range allUserIDs {
		if _, ok := available[id]; !ok {
			return false
		}
	}
	return true
}

// UnavailableUsers returns the users with an explicit "no" for the date.
// Users who simply have not marked yet are not included.
func UnavailableUsers(records []domain.AvailabilityRecord) []uuid.UUID {
	var out []uuid.UUID
	for _, rec := range records {
		if !rec.IsAvailable {
			out = append(out, rec.UserID)
		}
	}
	return out
}

// Dates returns the consensus dates among the given records, grouped by
// calendar date, excluding dates before today. Results are ISO date
// strings in ascending order of appearance per ByDate's ordering.
func Dates(allUserIDs []uuid.UUID, records []domain.AvailabilityRecord, today time.Time) []string {
	byDate := ByDate(records)

	var out []string
	for dateStr, recs := range byDate {
		date, err := dateutil.FromISODate(dateStr)
		if err != nil {
			continue
		}
		if dateutil.IsPastDate(date, today) {
			continue
		}
		if Holds(allUserIDs, recs) {
			out = append(out, dateStr)
		}
	}
	sort.Strings(out)
	return out
}

// ByDate groups availability records by ISO calendar date.
func ByDate(records []domain.AvailabilityRecord) map[string][]domain.AvailabilityRecord {
	byDate := make(map[string][]domain.AvailabilityRecord)
	for _, rec := range records {
		key := dateutil.ToISODate(rec.CalendarDate)
		byDate[key] = append(byDate[key], rec)
	}
	return byDate
}
