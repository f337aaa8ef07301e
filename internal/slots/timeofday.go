package slots

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time on a 24-hour day, normalized to minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

func (t TimeOfDay) After(o TimeOfDay) bool {
	return t.Minutes() > o.Minutes()
}

func (t TimeOfDay) Equal(o TimeOfDay) bool {
	return t == o
}

// addMinutes shifts the time forward. The caller is responsible for keeping
// the result within the same day; the grid generator guarantees this through
// its config validation.
func (t TimeOfDay) addMinutes(m int) TimeOfDay {
	total := t.Minutes() + m
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// DateKey is a calendar date without time-of-day, serialized as "YYYY-MM-DD".
// It partitions all availability and conflict queries.
type DateKey string

// ParseDateKey validates s as a real Gregorian calendar date.
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateKey, s)
	}
	return DateKey(s), nil
}

func (d DateKey) String() string {
	return string(d)
}
