package slots

import "fmt"

// Interval is a half-open [Start, End) span of time on a single date.
type Interval struct {
	Date  DateKey
	Start TimeOfDay
	End   TimeOfDay
}

// NewInterval builds an interval, enforcing the non-zero-length invariant.
func NewInterval(date DateKey, start, end TimeOfDay) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: %s >= %s", ErrInvalidInterval, start, end)
	}
	return Interval{Date: date, Start: start, End: end}, nil
}

// Overlaps reports whether the two intervals share at least one instant.
// Half-open semantics: touching endpoints do not overlap, which is what lets
// two customers book back-to-back hours.
func (i Interval) Overlaps(o Interval) bool {
	if i.Date != o.Date {
		return false
	}
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports whether t falls within the interval (start inclusive,
// end exclusive).
func (i Interval) Contains(t TimeOfDay) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

func (i Interval) DurationMinutes() int {
	return i.End.Minutes() - i.Start.Minutes()
}
