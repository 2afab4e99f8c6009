package consensus

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/beermile/backend/internal/domain"
)

func rec(userID uuid.UUID, date time.Time, available bool) domain.AvailabilityRecord {
	return domain.AvailabilityRecord{
		ID:           uuid.New(),
		UserID:       userID,
		CalendarDate: date,
		IsAvailable:  available,
	}
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestHolds(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	d := day(2026, 3, 15)

	t.Run("zero users never consensus", func(t *testing.T) {
		assert.False(t, Holds(nil, []domain.AvailabilityRecord{rec(a, d, true)}))
	})

	t.Run("single user", func(t *testing.T) {
		assert.True(t, Holds([]uuid.UUID{a}, []domain.AvailabilityRecord{rec(a, d, true)}))
		assert.False(t, Holds([]uuid.UUID{a}, nil))
		assert.False(t, Holds([]uuid.UUID{a}, []domain.AvailabilityRecord{rec(a, d, false)}))
	})

	t.Run("all marked available", func(t *testing.T) {
		recs := []domain.AvailabilityRecord{rec(a, d, true), rec(b, d, true), rec(c, d, true)}
		assert.True(t, Holds([]uuid.UUID{a, b, c}, recs))
	})

	t.Run("missing record blocks consensus", func(t *testing.T) {
		recs := []domain.AvailabilityRecord{rec(a, d, true), rec(b, d, true)}
		assert.False(t, Holds([]uuid.UUID{a, b, c}, recs))
	})

	t.Run("explicit no blocks consensus", func(t *testing.T) {
		recs := []domain.AvailabilityRecord{rec(a, d, true), rec(b, d, true), rec(c, d, false)}
		assert.False(t, Holds([]uuid.UUID{a, b, c}, recs))
	})
}

// Adding an explicit "no" can only remove consensus; marking a previously
// unmarked user available can only grant or preserve it.
func TestHoldsMonotonicity(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	all := []uuid.UUID{a, b, c}
	d := day(2026, 3, 15)

	recs := []domain.AvailabilityRecord{rec(a, d, true), rec(b, d, true), rec(c, d, true)}
	assert.True(t, Holds(all, recs))

	withNo := append(append([]domain.AvailabilityRecord{}, recs...), rec(uuid.New(), d, false))
	assert.True(t, Holds(all, withNo), "stranger's no does not affect known users")

	partial := []domain.AvailabilityRecord{rec(a, d, true), rec(b, d, true)}
	assert.False(t, Holds(all, partial))
	assert.True(t, Holds(all, append(partial, rec(c, d, true))), "marking the last user grants consensus")
}

func TestUnavailableUsers(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	d := day(2026, 3, 16)

	// Only explicit "no" marks count; unmarked users are not unavailable.
	recs := []domain.AvailabilityRecord{rec(a, d, true), rec(b, d, false)}
	got := UnavailableUsers(recs)
	assert.Equal(t, []uuid.UUID{b}, got)

	assert.Empty(t, UnavailableUsers([]domain.AvailabilityRecord{rec(a, d, true)}))
}

func TestDates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	all := []uuid.UUID{a, b}
	today := day(2026, 3, 10)

	records := []domain.AvailabilityRecord{
		// Consensus, future.
		rec(a, day(2026, 3, 15), true), rec(b, day(2026, 3, 15), true),
		// Consensus but past.
		rec(a, day(2026, 3, 1), true), rec(b, day(2026, 3, 1), true),
		// One explicit no.
		rec(a, day(2026, 3, 16), true), rec(b, day(2026, 3, 16), false),
		// Only one user marked.
		rec(a, day(2026, 3, 20), true),
		// Consensus on today itself counts.
		rec(a, day(2026, 3, 10), true), rec(b, day(2026, 3, 10), true),
	}

	got := Dates(all, records, today)
	assert.Equal(t, []string{"2026-03-10", "2026-03-15"}, got)
}
