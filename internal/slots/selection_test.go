package slots

import (
	"errors"
	"testing"
)

func TestReduce_ContiguousSelection(t *testing.T) {
	grid := defaultGrid(t)
	avail := Project(testDate, grid, nil)

	iv, err := Reduce(Selection{0, 1, 2}, grid, avail, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if iv.Start != grid[0].Start {
		t.Errorf("expected start %s, got %s", grid[0].Start, iv.Start)
	}
	if iv.End != grid[2].End {
		t.Errorf("expected end %s, got %s", grid[2].End, iv.End)
	}
	if iv.Date != testDate {
		t.Errorf("expected date %s, got %s", testDate, iv.Date)
	}
}

func TestReduce_SingleSlot(t *testing.T) {
	grid := defaultGrid(t)
	avail := Project(testDate, grid, nil)

	iv, err := Reduce(Selection{4}, grid, avail, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Start.String() != "13:00" || iv.End.String() != "14:00" {
		t.Errorf("expected 13:00-14:00, got %s-%s", iv.Start, iv.End)
	}
}

func TestReduce_UnorderedInputWithDuplicates(t *testing.T) {
	grid := defaultGrid(t)
	avail := Project(testDate, grid, nil)

	iv, err := Reduce(Selection{2, 0, 1, 2}, grid, avail, testDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Start.String() != "09:00" || iv.End.String() != "12:00" {
		t.Errorf("expected 09:00-12:00, got %s-%s", iv.Start, iv.End)
	}
}

func TestReduce_EmptySelection(t *testing.T) {
	grid := defaultGrid(t)

	if _, err := Reduce(nil, grid, Project(testDate, grid, nil), testDate); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}
}

func TestReduce_NonContiguousSelection(t *testing.T) {
	grid := defaultGrid(t)
	avail := Project(testDate, grid, nil)

	_, err := Reduce(Selection{0, 1, 3}, grid, avail, testDate)

	var ncErr *NonContiguousSelectionError
	if !errors.As(err, &ncErr) {
		t.Fatalf("expected NonContiguousSelectionError, got %v", err)
	}
}

func TestReduce_UnknownSlot(t *testing.T) {
	grid := defaultGrid(t)
	avail := Project(testDate, grid, nil)

	_, err := Reduce(Selection{8, 9}, grid, avail, testDate)

	var unknownErr *UnknownSlotError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownSlotError, got %v", err)
	}
	if unknownErr.Index != 9 {
		t.Errorf("expected offending index 9, got %d", unknownErr.Index)
	}
}

func TestReduce_BookedSlotRejected(t *testing.T) {
	grid := defaultGrid(t)
	bookings := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "11:00", "12:00")}, // occupies slot 2
	}
	avail := Project(testDate, grid, bookings)

	_, err := Reduce(Selection{1, 2, 3}, grid, avail, testDate)

	var bookedErr *SlotAlreadyBookedError
	if !errors.As(err, &bookedErr) {
		t.Fatalf("expected SlotAlreadyBookedError, got %v", err)
	}
	if len(bookedErr.Indices) != 1 || bookedErr.Indices[0] != 2 {
		t.Errorf("expected offending index [2], got %v", bookedErr.Indices)
	}
}

func TestReduce_BookedCheckBeforeContiguity(t *testing.T) {
	// A selection that is both gapped and touches a booked slot reports the
	// booked slot first: the user cannot fix contiguity around a taken slot.
	grid := defaultGrid(t)
	bookings := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "10:00", "11:00")},
	}
	avail := Project(testDate, grid, bookings)

	_, err := Reduce(Selection{0, 1, 3}, grid, avail, testDate)

	var bookedErr *SlotAlreadyBookedError
	if !errors.As(err, &bookedErr) {
		t.Fatalf("expected SlotAlreadyBookedError, got %v", err)
	}
}
