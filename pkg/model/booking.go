package model

import (
	"time"

	"cafebook/internal/slots"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a reserved table-time interval for one customer on one date.
// Times are stored as the wire format the booking page submits: a "YYYY-MM-DD"
// date and "HH:MM" clock times, half-open [start_time, end_time).
type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Date          string    `json:"date" bson:"date" validate:"required,date_key"`
	StartTime     string    `json:"start_time" bson:"start_time" validate:"required,time_of_day"`
	EndTime       string    `json:"end_time" bson:"end_time" validate:"required,time_of_day"`
	CustomerName  string    `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string    `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BookingUpdate struct {
	Date          string `json:"date,omitempty" validate:"omitempty,date_key"`
	StartTime     string `json:"start_time,omitempty" validate:"omitempty,time_of_day"`
	EndTime       string `json:"end_time,omitempty" validate:"omitempty,time_of_day"`
	CustomerName  string `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerPhone string `json:"customer_phone,omitempty" validate:"omitempty,e164"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Interval parses the stored date and clock times into the engine's interval
// value. Fails only on malformed stored data; validated bookings always parse.
func (b *Booking) Interval() (slots.Interval, error) {
	date, err := slots.ParseDateKey(b.Date)
	if err != nil {
		return slots.Interval{}, err
	}
	start, err := slots.ParseTimeOfDay(b.StartTime)
	if err != nil {
		return slots.Interval{}, err
	}
	end, err := slots.ParseTimeOfDay(b.EndTime)
	if err != nil {
		return slots.Interval{}, err
	}
	return slots.NewInterval(date, start, end)
}

// SlotBooking converts to the engine's representation for availability
// projection and conflict checks.
func (b *Booking) SlotBooking() (slots.Booking, error) {
	iv, err := b.Interval()
	if err != nil {
		return slots.Booking{}, err
	}
	return slots.Booking{
		ID:        b.ID,
		Interval:  iv,
		Cancelled: b.IsCancelled(),
	}, nil
}
