// Package timegrid works with wall-clock times on the booking grid:
// "HH:MM" strings on a 30-minute raster between 08:00 and 21:00.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// Bookable hours, inclusive on both ends of the grid.
	OpeningHour = 8
	ClosingHour = 21

	StepMinutes = 30
)

// ToMinutes converts an "HH:MM" clock string to minutes since midnight.
func ToMinutes(clock string) (int, error) {
	hourStr, minuteStr, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", clock)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in clock time %q", clock)
	}

	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in clock time %q", clock)
	}

	return hour*60 + minute, nil
}

// Overlap reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect. Touching intervals (end1 == start2) do not
// overlap. Callers pass values drawn from the fixed grid; a malformed
// value never overlaps anything.
func Overlap(start1, end1, start2, end2 string) bool {
	s1, err1 := ToMinutes(start1)
	e1, err2 := ToMinutes(end1)
	s2, err3 := ToMinutes(start2)
	e2, err4 := ToMinutes(end2)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return false
	}
	return s1 < e2 && s2 < e1
}

// Options returns every selectable grid time, 08:00 through 21:00 in
// 30-minute steps.
func Options() []string {
	var options []string
	for h := OpeningHour; h <= ClosingHour; h++ {
		for m := 0; m < 60; m += StepMinutes {
			if h == ClosingHour && m > 0 {
				break
			}
			options = append(options, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return options
}

// DisplayDate renders an ISO date for display in a long human-readable form
// with the weekday. Presentation only; never used in comparisons.
func DisplayDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2, 2006")
}
