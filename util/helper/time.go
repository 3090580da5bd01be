package helper_util

import (
	"fmt"
	"time"
)

// Helper function to parse time
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err
}

// ParseClockMinutes parses a wall-clock "HH:MM" value into minutes since
// midnight.
func ParseClockMinutes(s string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return hh*60 + mm, nil
}

// MinutesOfDay returns the minutes elapsed since midnight for t in its own
// location.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseDate parses a calendar date in "2006-01-02" form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateOnly truncates t to its calendar date, normalized to UTC so dates can
// be compared with ParseDate results regardless of the clock's zone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
