package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestISODateRoundTrip(t *testing.T) {
	for _, s := range []string{"2026-01-01", "2026-03-15", "2024-02-29", "1999-12-31"} {
		parsed, err := FromISODate(s)
		require.NoError(t, err)
		assert.Equal(t, s, ToISODate(parsed))
		assert.Equal(t, 0, parsed.Hour())
	}
}

func TestFromISODateInvalid(t *testing.T) {
	for _, s := range []string{"", "2026-3-15", "15-03-2026", "2026/03/15", "not-a-date", "2026-13-01"} {
		_, err := FromISODate(s)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", s)
	}
}

func TestIsPastDate(t *testing.T) {
	today := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

	assert.True(t, IsPastDate(date(2026, 3, 9), today))
	assert.False(t, IsPastDate(date(2026, 3, 10), today), "today is not past")
	assert.False(t, IsPastDate(date(2026, 3, 11), today))

	// Time of day on either side is ignored.
	lateYesterday := time.Date(2026, time.March, 9, 23, 59, 59, 0, time.UTC)
	assert.True(t, IsPastDate(lateYesterday, today))
}

func TestThreeMonthWindow(t *testing.T) {
	today := date(2026, 1, 15)
	start, end := ThreeMonthWindow(today)

	assert.Equal(t, date(2026, 1, 1), start)
	assert.Equal(t, time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC), end)

	assert.False(t, OutOfWindow(date(2026, 3, 31), today))
	assert.True(t, OutOfWindow(date(2026, 4, 1), today))

	// Window rolls across a year boundary.
	start, end = ThreeMonthWindow(date(2026, 11, 3))
	assert.Equal(t, date(2026, 11, 1), start)
	assert.Equal(t, time.Date(2027, time.January, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2026, 1, 31},
		{2026, 2, 28},
		{2024, 2, 29},  // divisible by 4
		{2000, 2, 29},  // divisible by 400
		{1900, 2, 28},  // divisible by 100 but not 400
		{2026, 4, 30},
		{2026, 12, 31},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month), "%d-%d", tt.year, tt.month)
	}
}

func TestCalendarGrid(t *testing.T) {
	// March 2026 starts on a Sunday and has 31 days.
	grid := CalendarGrid(2026, 3)
	require.Len(t, grid, 5)
	assert.Equal(t, [7]int{1, 2, 3, 4, 5, 6, 7}, grid[0])
	assert.Equal(t, [7]int{29, 30, 31, 0, 0, 0, 0}, grid[4])

	// February 2026 starts on a Sunday and has exactly 4 full weeks.
	grid = CalendarGrid(2026, 2)
	require.Len(t, grid, 4)
	assert.Equal(t, [7]int{1, 2, 3, 4, 5, 6, 7}, grid[0])
	assert.Equal(t, [7]int{22, 23, 24, 25, 26, 27, 28}, grid[3])

	// January 2026 starts on a Thursday: four leading pad cells.
	grid = CalendarGrid(2026, 1)
	require.Len(t, grid, 5)
	assert.Equal(t, [7]int{0, 0, 0, 0, 1, 2, 3}, grid[0])
	assert.Equal(t, [7]int{25, 26, 27, 28, 29, 30, 31}, grid[4])

	// Days 1..N appear exactly once, in order.
	var seen []int
	for _, week := range grid {
		for _, day := range week {
			if day != 0 {
				seen = append(seen, day)
			}
		}
	}
	require.Len(t, seen, 31)
	for i, day := range seen {
		assert.Equal(t, i+1, day)
	}
}
