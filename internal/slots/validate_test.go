package slots

import (
	"errors"
	"testing"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(DefaultGridConfig())
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}
	return v
}

func TestValidator_AcceptsFreeInterval(t *testing.T) {
	v := newTestValidator(t)
	proposed := mustInterval(t, testDate, "10:00", "11:00")

	approved, err := v.Validate(proposed, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Interval != proposed {
		t.Errorf("approved token should carry the proposed interval, got %+v", approved.Interval)
	}
}

func TestValidator_AdjacentBookingsAccepted(t *testing.T) {
	v := newTestValidator(t)
	existing := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "10:00", "11:00")},
	}

	// Back-to-back with the existing booking: boundary touch is not overlap.
	if _, err := v.Validate(mustInterval(t, testDate, "11:00", "12:00"), existing, ""); err != nil {
		t.Errorf("booking starting exactly at an existing end should be accepted, got %v", err)
	}
	if _, err := v.Validate(mustInterval(t, testDate, "09:00", "10:00"), existing, ""); err != nil {
		t.Errorf("booking ending exactly at an existing start should be accepted, got %v", err)
	}
}

func TestValidator_OverlapRejected(t *testing.T) {
	v := newTestValidator(t)
	existing := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "10:00", "11:00")},
	}

	_, err := v.Validate(mustInterval(t, testDate, "10:30", "11:30"), existing, "")

	var overlapErr *OverlapConflictError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("expected OverlapConflictError, got %v", err)
	}
	if len(overlapErr.ConflictingIDs) != 1 || overlapErr.ConflictingIDs[0] != "b1" {
		t.Errorf("expected conflicting IDs [b1], got %v", overlapErr.ConflictingIDs)
	}
}

func TestValidator_ReportsAllConflicts(t *testing.T) {
	v := newTestValidator(t)
	existing := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "09:00", "10:00")},
		{ID: "b2", Interval: mustInterval(t, testDate, "10:00", "11:00")},
		{ID: "b3", Interval: mustInterval(t, testDate, "14:00", "15:00")},
	}

	_, err := v.Validate(mustInterval(t, testDate, "09:30", "10:30"), existing, "")

	var overlapErr *OverlapConflictError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("expected OverlapConflictError, got %v", err)
	}
	if len(overlapErr.ConflictingIDs) != 2 {
		t.Fatalf("expected 2 conflicting IDs, got %v", overlapErr.ConflictingIDs)
	}
}

func TestValidator_CancelledBookingDoesNotConflict(t *testing.T) {
	v := newTestValidator(t)
	existing := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "10:00", "11:00"), Cancelled: true},
	}

	if _, err := v.Validate(mustInterval(t, testDate, "10:00", "11:00"), existing, ""); err != nil {
		t.Errorf("cancelled bookings must not block new submissions, got %v", err)
	}
}

func TestValidator_EditExcludesSelf(t *testing.T) {
	v := newTestValidator(t)
	existing := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "10:00", "11:00")},
		{ID: "b2", Interval: mustInterval(t, testDate, "14:00", "15:00")},
	}

	// Shifting b1 half an hour overlaps only b1's own prior interval.
	if _, err := v.Validate(mustInterval(t, testDate, "10:30", "11:30"), existing, "b1"); err != nil {
		t.Errorf("edit overlapping only its own prior interval should succeed, got %v", err)
	}

	// But an edit colliding with another booking still fails.
	_, err := v.Validate(mustInterval(t, testDate, "14:30", "15:30"), existing, "b1")
	var overlapErr *OverlapConflictError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("expected OverlapConflictError against b2, got %v", err)
	}
}

func TestValidator_OutsideOperatingHours(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "starts before open", start: "08:00", end: "10:00"},
		{name: "ends after close", start: "17:00", end: "19:00"},
		{name: "entirely outside", start: "06:00", end: "07:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(mustInterval(t, testDate, tt.start, tt.end), nil, "")
			var hoursErr *OutsideOperatingHoursError
			if !errors.As(err, &hoursErr) {
				t.Errorf("expected OutsideOperatingHoursError, got %v", err)
			}
		})
	}

	// Exact fit against both boundaries is allowed.
	if _, err := v.Validate(mustInterval(t, testDate, "09:00", "18:00"), nil, ""); err != nil {
		t.Errorf("interval exactly spanning operating hours should be accepted, got %v", err)
	}
}

func TestValidator_EmptyOrInvertedInterval(t *testing.T) {
	v := newTestValidator(t)
	bad := Interval{Date: testDate, Start: mustTime(t, "11:00"), End: mustTime(t, "10:00")}

	if _, err := v.Validate(bad, nil, ""); !errors.Is(err, ErrEmptyOrInvertedInterval) {
		t.Errorf("expected ErrEmptyOrInvertedInterval, got %v", err)
	}
}

// Full walk through the booking flow: select, reduce, validate, project.
func TestBookingFlow_EndToEnd(t *testing.T) {
	grid := defaultGrid(t)
	v := newTestValidator(t)

	day := []Booking{
		{ID: "existing", Interval: mustInterval(t, testDate, "13:00", "15:00")},
	}
	avail := Project(testDate, grid, day)

	// Slots 4 and 5 (13:00-15:00) are taken by the existing booking.
	if _, err := Reduce(Selection{4, 5}, grid, avail, testDate); err == nil {
		t.Fatal("selection of booked slots should have been rejected")
	}

	// Slots 0 and 1 (09:00-11:00) are free.
	iv, err := Reduce(Selection{0, 1}, grid, avail, testDate)
	if err != nil {
		t.Fatalf("unexpected reduce error: %v", err)
	}
	approved, err := v.Validate(iv, day, "")
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	day = append(day, Booking{ID: "new", Interval: approved.Interval})
	avail = Project(testDate, grid, day)

	for i, want := range []bool{true, true, false, false, true, true, false, false, false} {
		if avail[i].Booked != want {
			t.Errorf("slot %d booked = %v, want %v", i, avail[i].Booked, want)
		}
	}
}
