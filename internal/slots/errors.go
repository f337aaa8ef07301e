package slots

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTimeOfDay = errors.New("time of day out of range")

	ErrInvalidDateKey = errors.New("invalid calendar date")

	ErrInvalidInterval = errors.New("interval end must be after start")

	ErrInvalidConfig = errors.New("invalid slot grid configuration")

	ErrEmptySelection = errors.New("selection is empty")

	ErrEmptyOrInvertedInterval = errors.New("interval is empty or inverted")
)

// UnknownSlotError reports a selected index with no matching slot in the grid.
type UnknownSlotError struct {
	Index int
}

func (e *UnknownSlotError) Error() string {
	return fmt.Sprintf("slot index %d does not exist in the grid", e.Index)
}

// SlotAlreadyBookedError reports selected slots that are already taken.
type SlotAlreadyBookedError struct {
	Indices []int
}

func (e *SlotAlreadyBookedError) Error() string {
	return fmt.Sprintf("selected slots already booked: %v", e.Indices)
}

// NonContiguousSelectionError reports a selection with gaps. Bookings must be
// a single unbroken block of slots.
type NonContiguousSelectionError struct {
	Indices []int
}

func (e *NonContiguousSelectionError) Error() string {
	return fmt.Sprintf("selected slots are not contiguous: %v", e.Indices)
}

// OutsideOperatingHoursError reports an interval that is not fully contained
// in the configured operating hours.
type OutsideOperatingHoursError struct {
	Interval Interval
	Open     TimeOfDay
	Close    TimeOfDay
}

func (e *OutsideOperatingHoursError) Error() string {
	return fmt.Sprintf("interval %s-%s is outside operating hours %s-%s",
		e.Interval.Start, e.Interval.End, e.Open, e.Close)
}

// OverlapConflictError reports the bookings a proposed interval collides with.
type OverlapConflictError struct {
	ConflictingIDs []string
}

func (e *OverlapConflictError) Error() string {
	return fmt.Sprintf("interval overlaps existing bookings: %s", strings.Join(e.ConflictingIDs, ", "))
}
