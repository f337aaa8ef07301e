package slots

import "testing"

const testDate = DateKey("2026-09-01")

func defaultGrid(t *testing.T) []SlotUnit {
	t.Helper()
	grid, err := Grid(DefaultGridConfig())
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}
	return grid
}

func TestProject_EmptyDay(t *testing.T) {
	avail := Project(testDate, defaultGrid(t), nil)

	if len(avail) != 9 {
		t.Fatalf("expected 9 slot statuses, got %d", len(avail))
	}
	for i, status := range avail {
		if status.Booked {
			t.Errorf("slot %d should be free on an empty day", i)
		}
	}
}

func TestProject_SingleBooking(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "09:00", "10:00")},
	}

	avail := Project(testDate, defaultGrid(t), bookings)

	if !avail[0].Booked || avail[0].BookingID != "b1" {
		t.Errorf("slot 0 should be booked by b1, got %+v", avail[0])
	}
	for i := 1; i < len(avail); i++ {
		if avail[i].Booked {
			t.Errorf("slot %d should be free", i)
		}
	}
}

func TestProject_PartialCoverageMarksSlot(t *testing.T) {
	// A booking covering only half of a slot still blocks the whole unit.
	bookings := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "10:30", "11:30")},
	}

	avail := Project(testDate, defaultGrid(t), bookings)

	if !avail[1].Booked {
		t.Error("slot 1 (10:00-11:00) should be booked by partial coverage")
	}
	if !avail[2].Booked {
		t.Error("slot 2 (11:00-12:00) should be booked by partial coverage")
	}
	if avail[0].Booked || avail[3].Booked {
		t.Error("slots outside the booking should stay free")
	}
}

func TestProject_MultiSlotBooking(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "13:00", "15:00")},
	}

	avail := Project(testDate, defaultGrid(t), bookings)

	for i, want := range []bool{false, false, false, false, true, true, false, false, false} {
		if avail[i].Booked != want {
			t.Errorf("slot %d booked = %v, want %v", i, avail[i].Booked, want)
		}
	}
}

func TestProject_CancelledBookingIgnored(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", Interval: mustInterval(t, testDate, "09:00", "10:00"), Cancelled: true},
	}

	avail := Project(testDate, defaultGrid(t), bookings)

	if avail[0].Booked {
		t.Error("cancelled bookings must not block slots")
	}
}

func TestProject_OverlappingInputFirstWins(t *testing.T) {
	// Overlapping bookings are not expected given the conflict validator, but
	// projection must report deterministically instead of failing.
	bookings := []Booking{
		{ID: "earlier", Interval: mustInterval(t, testDate, "09:00", "11:00")},
		{ID: "later", Interval: mustInterval(t, testDate, "10:00", "12:00")},
	}

	avail := Project(testDate, defaultGrid(t), bookings)

	if avail[1].BookingID != "earlier" {
		t.Errorf("slot 1 should report the first booking in input order, got %s", avail[1].BookingID)
	}
	if avail[2].BookingID != "later" {
		t.Errorf("slot 2 should report 'later', got %s", avail[2].BookingID)
	}
}

func TestProject_OtherDateDoesNotBlock(t *testing.T) {
	bookings := []Booking{
		{ID: "b1", Interval: mustInterval(t, "2026-09-02", "09:00", "10:00")},
	}

	avail := Project(testDate, defaultGrid(t), bookings)

	if avail[0].Booked {
		t.Error("a booking on another date must not block this date's slots")
	}
}
