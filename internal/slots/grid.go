package slots

import "fmt"

// Default operating hours for the café floor.
const (
	DefaultOpenHour          = 9
	DefaultCloseHour         = 18
	DefaultSlotLengthMinutes = 60
)

// GridConfig describes how a day is divided into bookable units.
type GridConfig struct {
	OpenHour          int
	CloseHour         int
	SlotLengthMinutes int
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		OpenHour:          DefaultOpenHour,
		CloseHour:         DefaultCloseHour,
		SlotLengthMinutes: DefaultSlotLengthMinutes,
	}
}

func (c GridConfig) Validate() error {
	if c.OpenHour < 0 || c.OpenHour > 23 {
		return fmt.Errorf("%w: open hour %d out of range", ErrInvalidConfig, c.OpenHour)
	}
	if c.CloseHour < 0 || c.CloseHour > 23 {
		return fmt.Errorf("%w: close hour %d out of range", ErrInvalidConfig, c.CloseHour)
	}
	if c.CloseHour <= c.OpenHour {
		return fmt.Errorf("%w: close hour %d must be after open hour %d", ErrInvalidConfig, c.CloseHour, c.OpenHour)
	}
	if c.SlotLengthMinutes <= 0 {
		return fmt.Errorf("%w: slot length %d must be positive", ErrInvalidConfig, c.SlotLengthMinutes)
	}
	if span := (c.CloseHour - c.OpenHour) * 60; span%c.SlotLengthMinutes != 0 {
		return fmt.Errorf("%w: slot length %dm does not evenly divide the %dm operating span", ErrInvalidConfig, c.SlotLengthMinutes, span)
	}
	return nil
}

func (c GridConfig) OpenTime() TimeOfDay {
	return TimeOfDay{Hour: c.OpenHour}
}

func (c GridConfig) CloseTime() TimeOfDay {
	return TimeOfDay{Hour: c.CloseHour}
}

// SlotUnit is one bookable unit of time within operating hours. Units are
// date-independent; only their booked status is date-relative.
type SlotUnit struct {
	Index int
	Start TimeOfDay
	End   TimeOfDay
}

// Grid produces the ordered, 0-indexed slot units covering
// [OpenHour:00, CloseHour:00). Pure and deterministic: the same config always
// yields the same sequence regardless of date or booking state.
func Grid(cfg GridConfig) ([]SlotUnit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	count := (cfg.CloseHour - cfg.OpenHour) * 60 / cfg.SlotLengthMinutes
	units := make([]SlotUnit, 0, count)
	start := cfg.OpenTime()
	for i := 0; i < count; i++ {
		end := start.addMinutes(cfg.SlotLengthMinutes)
		units = append(units, SlotUnit{Index: i, Start: start, End: end})
		start = end
	}
	return units, nil
}
