package confirmer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cafebook/internal/bookings/events"
	"cafebook/pkg/kafka"
	"cafebook/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatText,
		Output:  io.Discard,
		Service: "test",
	})
}

func testEvent() events.BookingEvent {
	return events.BookingEvent{
		BookingID:     "abc123",
		Date:          "2026-09-01",
		StartTime:     "10:00",
		EndTime:       "11:00",
		CustomerName:  "Ada Lovelace",
		CustomerPhone: "+12025550123",
		Status:        "pending",
	}
}

func TestRender(t *testing.T) {
	event := testEvent()

	tests := []struct {
		eventType string
		wantOK    bool
		contains  []string
	}{
		{events.TypeBookingCreated, true, []string{"Ada Lovelace", "2026-09-01", "10:00", "11:00"}},
		{events.TypeBookingUpdated, true, []string{"updated", "10:00"}},
		{events.TypeBookingCancelled, true, []string{"cancelled", "2026-09-01"}},
		{events.TypeBookingDeleted, false, nil},
		{"something.else", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			text, ok := Render(tt.eventType, event)
			if ok != tt.wantOK {
				t.Fatalf("Render(%s) ok = %v, want %v", tt.eventType, ok, tt.wantOK)
			}
			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("Render(%s) = %q, missing %q", tt.eventType, text, want)
				}
			}
		})
	}
}

func TestProcessorHandle(t *testing.T) {
	var delivered []string
	notify := func(_ context.Context, phone, text string) error {
		delivered = append(delivered, phone+": "+text)
		return nil
	}
	p := NewProcessor(notify, testLogger())

	msg := kafka.NewMessage().
		WithKey("abc123").
		WithEventType(events.TypeBookingCreated).
		WithValue(testEvent()).
		Build()

	if err := p.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(delivered) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(delivered))
	}
	if !strings.HasPrefix(delivered[0], "+12025550123:") {
		t.Errorf("expected delivery to customer phone, got %q", delivered[0])
	}
}

func TestProcessorHandle_UnknownTypeIgnored(t *testing.T) {
	notify := func(_ context.Context, _, _ string) error {
		t.Error("notifier should not be called for unknown event types")
		return nil
	}
	p := NewProcessor(notify, testLogger())

	msg := kafka.NewMessage().
		WithKey("abc123").
		WithEventType("booking.mystery").
		WithValue(testEvent()).
		Build()

	if err := p.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
}

func TestProcessorHandle_BadPayload(t *testing.T) {
	p := NewProcessor(nil, testLogger())

	msg := kafka.NewMessage().
		WithKey("abc123").
		WithEventType(events.TypeBookingCreated).
		WithRawValue([]byte("{not json")).
		Build()

	err := p.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}

	var kafkaErr *kafka.KafkaError
	if !errors.As(err, &kafkaErr) || !kafkaErr.IsPermanent() {
		t.Errorf("expected permanent KafkaError, got %v", err)
	}
}

func TestProcessorHandle_DeliveryFailureIsTransient(t *testing.T) {
	notify := func(_ context.Context, _, _ string) error {
		return errors.New("gateway down")
	}
	p := NewProcessor(notify, testLogger())

	msg := kafka.NewMessage().
		WithKey("abc123").
		WithEventType(events.TypeBookingCreated).
		WithValue(testEvent()).
		Build()

	err := p.Handle(context.Background(), msg)
	var kafkaErr *kafka.KafkaError
	if !errors.As(err, &kafkaErr) || !kafkaErr.IsTransient() {
		t.Errorf("expected transient KafkaError, got %v", err)
	}
}
