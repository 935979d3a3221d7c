package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with minute precision, stored as minutes
// since midnight. Sessions keep their daily window in this form so that
// window overlap is plain integer comparison.
type TimeOfDay int

// ParseTimeOfDay parses "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// DateOf truncates a moment to its calendar date at midnight UTC. All dates
// in the system are normalized through this before comparison or storage.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate builds a normalized calendar date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date the way it appears in user-facing
// messages and JSON payloads.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses "2006-01-02" into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}
