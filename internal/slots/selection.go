package slots

import "sort"

// Selection is the set of slot indices a user toggled in one interaction
// session. It is transient and discarded after submission.
type Selection []int

// Reduce collapses a selection into the single contiguous interval it spans:
// from the earliest selected slot's start to the latest selected slot's end.
// The UI refuses to toggle booked slots; the same rules are enforced here so
// a stale or hand-crafted selection cannot slip through.
//
// Rejections: ErrEmptySelection, UnknownSlotError for an index outside the
// grid, SlotAlreadyBookedError when any selected slot is taken, and
// NonContiguousSelectionError when the sorted indices have gaps.
func Reduce(sel Selection, grid []SlotUnit, avail Availability, date DateKey) (Interval, error) {
	if len(sel) == 0 {
		return Interval{}, ErrEmptySelection
	}

	indices := normalize(sel)
	for _, idx := range indices {
		if idx < 0 || idx >= len(grid) {
			return Interval{}, &UnknownSlotError{Index: idx}
		}
	}

	var booked []int
	for _, idx := range indices {
		if idx < len(avail) && avail[idx].Booked {
			booked = append(booked, idx)
		}
	}
	if len(booked) > 0 {
		return Interval{}, &SlotAlreadyBookedError{Indices: booked}
	}

	for i := 1; i < len(indices); i++ {
		if indices[i] != indices[i-1]+1 {
			return Interval{}, &NonContiguousSelectionError{Indices: indices}
		}
	}

	first := grid[indices[0]]
	last := grid[indices[len(indices)-1]]
	return NewInterval(date, first.Start, last.End)
}

// normalize sorts the selection ascending and drops duplicate indices.
func normalize(sel Selection) []int {
	sorted := make([]int, len(sel))
	copy(sorted, sel)
	sort.Ints(sorted)

	out := make([]int, 0, len(sorted))
	for i, idx := range sorted {
		if i > 0 && idx == sorted[i-1] {
			continue
		}
		out = append(out, idx)
	}
	return out
}
