package utils

import (
	"fmt"
	"time"
)

// LoadLocation resolves the configured display time zone, falling back to UTC
// when name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("Failed to load location %q: %w", name, err)
	}
	return loc, nil
}

// FormatLocal returns t formatted in loc.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC1123)
}

// DayKey is the calendar day of t in loc, as 2006-01-02.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// WeekStreak counts consecutive ISO weeks that contain at least one of times.
// The run ends with the week of now, or with last week while the current week
// is still empty, so a streak is not lost until a whole week is missed.
func WeekStreak(times []time.Time, now time.Time, loc *time.Location) int {
	weeks := make(map[string]bool)
	for _, t := range times {
		weeks[weekKey(t.In(loc))] = true
	}

	now = now.In(loc)
	if !weeks[weekKey(now)] {
		now = now.AddDate(0, 0, -7)
	}

	streak := 0
	for weeks[weekKey(now)] {
		streak++
		now = now.AddDate(0, 0, -7)
	}
	return streak
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}
