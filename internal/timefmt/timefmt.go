// Package timefmt converts race times between seconds and the M:SS
// display format used everywhere in the app.
package timefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidFormat = errors.New("invalid time format")

// Format renders a non-negative number of seconds as M:SS.
func Format(seconds int) string {
	minutes := seconds / 60
	secs := seconds % 60
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Parse converts an M:SS string back to seconds. Both components must
// be bare digits; Atoi alone would also accept signed forms like "0:+5".
func Parse(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || !digits(parts[0]) || !digits(parts[1]) {
		return 0, ErrInvalidFormat
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidFormat
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs > 59 {
		return 0, ErrInvalidFormat
	}
	return minutes*60 + secs, nil
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
