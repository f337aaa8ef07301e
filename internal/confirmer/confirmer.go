package confirmer

import (
	"context"
	"fmt"

	"cafebook/internal/bookings/events"
	"cafebook/pkg/kafka"
	"cafebook/pkg/logger"
)

// Notifier delivers a rendered confirmation to the customer. The default
// implementation just logs; an SMS or email gateway slots in here.
type Notifier func(ctx context.Context, phone, text string) error

// Processor consumes booking events and turns them into customer-facing
// confirmation messages.
type Processor struct {
	notify Notifier
	log    *logger.Logger
}

func NewProcessor(notify Notifier, log *logger.Logger) *Processor {
	p := &Processor{
		notify: notify,
		log:    log,
	}
	if p.notify == nil {
		p.notify = p.logNotifier
	}
	return p
}

// Handle is the kafka message handler. Unknown event types are ignored,
// not failed; a replayed topic may carry types added later.
func (p *Processor) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking event", err)
	}

	text, ok := Render(msg.GetEventType(), event)
	if !ok {
		p.log.Debug("Ignoring unhandled event type",
			"event_type", msg.GetEventType(),
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	if err := p.notify(ctx, event.CustomerPhone, text); err != nil {
		return kafka.NewTransientError("failed to deliver confirmation", err)
	}

	p.log.Info("Confirmation delivered",
		"event_type", msg.GetEventType(),
		"booking_id", event.BookingID,
	)
	return nil
}

func (p *Processor) logNotifier(_ context.Context, phone, text string) error {
	p.log.Info("Confirmation rendered", "phone", phone, "text", text)
	return nil
}

// Render produces the confirmation line for an event type. The second
// return is false for types that need no customer message.
func Render(eventType string, event events.BookingEvent) (string, bool) {
	switch eventType {
	case events.TypeBookingCreated:
		return fmt.Sprintf(
			"Hi %s, your table is booked for %s from %s to %s. See you then!",
			event.CustomerName, event.Date, event.StartTime, event.EndTime,
		), true
	case events.TypeBookingUpdated:
		return fmt.Sprintf(
			"Hi %s, your booking was updated: %s from %s to %s.",
			event.CustomerName, event.Date, event.StartTime, event.EndTime,
		), true
	case events.TypeBookingCancelled:
		return fmt.Sprintf(
			"Hi %s, your booking on %s at %s has been cancelled.",
			event.CustomerName, event.Date, event.StartTime,
		), true
	default:
		return "", false
	}
}
