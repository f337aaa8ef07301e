package slots

// Approved is the token returned for an interval that passed conflict
// validation. The validator never writes anything itself; the caller persists
// the approved interval, and the store re-verifies at commit time to settle
// concurrent submissions.
type Approved struct {
	Interval Interval
}

// Validator checks proposed booking intervals against the no-overlap
// invariant and the configured operating hours.
type Validator struct {
	open  TimeOfDay
	close TimeOfDay
}

func NewValidator(cfg GridConfig) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Validator{open: cfg.OpenTime(), close: cfg.CloseTime()}, nil
}

// Validate accepts the proposed interval iff it is non-empty, falls entirely
// within operating hours, and overlaps no non-cancelled booking in existing.
// For edits, excludeID names the booking being modified so its own prior
// interval does not count against it; this is what lets editing reuse the
// exact same path as creation.
func (v *Validator) Validate(proposed Interval, existing []Booking, excludeID string) (Approved, error) {
	if !proposed.Start.Before(proposed.End) {
		return Approved{}, ErrEmptyOrInvertedInterval
	}

	if proposed.Start.Before(v.open) || v.close.Before(proposed.End) {
		return Approved{}, &OutsideOperatingHoursError{
			Interval: proposed,
			Open:     v.open,
			Close:    v.close,
		}
	}

	var conflicting []string
	for _, b := range existing {
		if b.Cancelled {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if proposed.Overlaps(b.Interval) {
			conflicting = append(conflicting, b.ID)
		}
	}
	if len(conflicting) > 0 {
		return Approved{}, &OverlapConflictError{ConflictingIDs: conflicting}
	}

	return Approved{Interval: proposed}, nil
}
