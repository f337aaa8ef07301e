package slots

// Booking is the slice of a stored booking the engine needs for availability
// and conflict decisions. Cancelled bookings are retained for display but
// never block a slot.
type Booking struct {
	ID        string
	Interval  Interval
	Cancelled bool
}

// SlotStatus is the derived booked/free state of one slot unit for a date.
type SlotStatus struct {
	Booked    bool
	BookingID string
}

// Availability maps each grid index to its status for one date. It is a
// projection of the current booking list, never persisted.
type Availability []SlotStatus

// Project marks each slot unit booked when any portion of it is covered by a
// non-cancelled booking on the given date. When several bookings cover the
// same unit the first in input order wins; callers pass bookings ordered by
// creation so the result is deterministic. Projection never fails: malformed
// or overlapping input is reported as-is rather than rejected.
func Project(date DateKey, grid []SlotUnit, bookings []Booking) Availability {
	avail := make(Availability, len(grid))
	for _, unit := range grid {
		slot := Interval{Date: date, Start: unit.Start, End: unit.End}
		for _, b := range bookings {
			if b.Cancelled {
				continue
			}
			if slot.Overlaps(b.Interval) {
				avail[unit.Index] = SlotStatus{Booked: true, BookingID: b.ID}
				break
			}
		}
	}
	return avail
}
