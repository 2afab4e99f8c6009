// Package dateutil holds the calendar math behind availability marking:
// ISO date conversion, past-date and booking-window checks, and the
// month grid used to render the calendar.
package dateutil

import (
	"errors"
	"time"
)

const ISOLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format")

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FromISODate parses YYYY-MM-DD into a UTC-midnight time.
func FromISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// IsPastDate reports whether date falls on a calendar day strictly before
// today's. The time-of-day component of both arguments is ignored.
func IsPastDate(date, today time.Time) bool {
	return truncateToDay(date).Before(truncateToDay(today))
}

// ThreeMonthWindow returns the availability booking window: the first day
// of today's month through the last instant of the month three months out.
func ThreeMonthWindow(today time.Time) (start, end time.Time) {
	start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 3, 0).Add(-time.Second)
	return start, end
}

// OutOfWindow reports whether date lies beyond the three-month window.
func OutOfWindow(date, today time.Time) bool {
	_, end := ThreeMonthWindow(today)
	return date.After(end)
}

// MonthStart returns the first day of the month at UTC midnight.
func MonthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last instant of the month.
func MonthEnd(year, month int) time.Time {
	return MonthStart(year, month).AddDate(0, 1, 0).Add(-time.Second)
}

// DaysInMonth returns the month length, honoring Gregorian leap years.
func DaysInMonth(year, month int) int {
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return monthLengths[month-1]
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// CalendarGrid lays out a month as Sunday-first weeks of exactly 7 cells.
// Cells before day 1 and after the last day are zero.
func CalendarGrid(year, month int) [][7]int {
	firstWeekday := int(MonthStart(year, month).Weekday())
	days := DaysInMonth(year, month)

	var grid [][7]int
	var week [7]int
	col := firstWeekday

	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			grid = append(grid, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		grid = append(grid, week)
	}

	return grid
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
