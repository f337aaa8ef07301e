package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "cafebook/internal/bookings/errors"
	"cafebook/internal/bookings/events"
	"cafebook/internal/bookings/validator"
	"cafebook/pkg/config"
	mongotx "cafebook/pkg/db/mongo"
	apperrors "cafebook/pkg/errors"
	"cafebook/pkg/logger"
	"cafebook/pkg/model"
)

const testDate = "2026-09-01"

// --- In-memory fakes ---

type fakeBookingRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Booking
	seq  int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]*model.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	booking.ID = fmt.Sprintf("%024d", r.seq)
	booking.CreatedAt = time.Now()
	stored := *booking
	r.byID[booking.ID] = &stored
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	found := *b
	return &found, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.byID {
		found := *b
		out = append(out, &found)
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByDate(_ context.Context, date string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.byID {
		if b.Date == date {
			found := *b
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	existing.Date = booking.Date
	existing.StartTime = booking.StartTime
	existing.EndTime = booking.EndTime
	existing.CustomerName = booking.CustomerName
	existing.CustomerPhone = booking.CustomerPhone
	existing.Status = booking.Status
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeBookingRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

func (r *fakeBookingRepo) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type fakeLockRepo struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newFakeLockRepo() *fakeLockRepo {
	return &fakeLockRepo{locks: make(map[string]bool)}
}

func (r *fakeLockRepo) Create(_ context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locks[lock.ID] {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	r.locks[lock.ID] = true
	return lock, nil
}

func (r *fakeLockRepo) Delete(_ context.Context, lockID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, lockID)
	return nil
}

type recordingPublisher struct {
	created   []string
	updated   []string
	cancelled []string
	deleted   []string
}

var _ events.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) BookingCreated(_ context.Context, b *model.Booking) {
	p.created = append(p.created, b.ID)
}

func (p *recordingPublisher) BookingUpdated(_ context.Context, b *model.Booking) {
	p.updated = append(p.updated, b.ID)
}

func (p *recordingPublisher) BookingCancelled(_ context.Context, b *model.Booking) {
	p.cancelled = append(p.cancelled, b.ID)
}

func (p *recordingPublisher) BookingDeleted(_ context.Context, b *model.Booking) {
	p.deleted = append(p.deleted, b.ID)
}

func (p *recordingPublisher) Close() error { return nil }

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		OpenHour:      9,
		CloseHour:     18,
		SlotLengthMin: 60,
		ReadTimeout:   time.Second,
		WriteTimeout:  time.Second,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatText,
			Output:  io.Discard,
			Service: "test",
		}),
	}
}

func newTestService(t *testing.T) (BookingService, *fakeBookingRepo, *recordingPublisher) {
	t.Helper()
	cfg := testConfig()
	repo := newFakeBookingRepo()
	publisher := &recordingPublisher{}
	svc, err := NewBookingService(
		repo,
		newFakeLockRepo(),
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	if err != nil {
		t.Fatalf("NewBookingService failed: %v", err)
	}
	return svc, repo, publisher
}

func newBooking(start, end string) *model.Booking {
	return &model.Booking{
		Date:          testDate,
		StartTime:     start,
		EndTime:       end,
		CustomerName:  "Ada Lovelace",
		CustomerPhone: "+12025550123",
	}
}

func wantAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code, appErr)
	}
	return appErr
}

// --- Tests ---

func TestCreateBooking(t *testing.T) {
	svc, _, publisher := newTestService(t)

	booking := newBooking("10:00", "11:00")
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if booking.Status != model.StatusPending {
		t.Errorf("expected default status %q, got %q", model.StatusPending, booking.Status)
	}
	if len(publisher.created) != 1 {
		t.Errorf("expected 1 created event, got %d", len(publisher.created))
	}
}

func TestCreateBooking_Overlap(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("10:00", "11:00")); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	err := svc.Create(ctx, newBooking("10:30", "11:30"))
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestCreateBooking_BackToBack(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("10:00", "11:00")); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	// Touching endpoints do not overlap.
	if err := svc.Create(ctx, newBooking("11:00", "12:00")); err != nil {
		t.Fatalf("back-to-back Create failed: %v", err)
	}
	if err := svc.Create(ctx, newBooking("09:00", "10:00")); err != nil {
		t.Fatalf("preceding back-to-back Create failed: %v", err)
	}
}

func TestCreateBooking_OutsideOperatingHours(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Create(context.Background(), newBooking("08:00", "09:00"))
	wantAppError(t, err, apperrors.CodeValidation)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		booking *model.Booking
	}{
		{"inverted times", newBooking("12:00", "11:00")},
		{"equal times", newBooking("11:00", "11:00")},
		{"bad phone", &model.Booking{
			Date: testDate, StartTime: "10:00", EndTime: "11:00",
			CustomerName: "Ada Lovelace", CustomerPhone: "not-a-phone",
		}},
		{"missing name", &model.Booking{
			Date: testDate, StartTime: "10:00", EndTime: "11:00",
			CustomerPhone: "+12025550123",
		}},
		{"bad date", &model.Booking{
			Date: "01-09-2026", StartTime: "10:00", EndTime: "11:00",
			CustomerName: "Ada Lovelace", CustomerPhone: "+12025550123",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(ctx, tt.booking)
			wantAppError(t, err, apperrors.CodeValidation)
		})
	}
}

func TestCreateFromSelection(t *testing.T) {
	svc, _, _ := newTestService(t)

	booking, err := svc.CreateFromSelection(context.Background(), &SelectionRequest{
		Date:          testDate,
		Slots:         []int{2, 3},
		CustomerName:  "Grace Hopper",
		CustomerPhone: "+12025550177",
	})
	if err != nil {
		t.Fatalf("CreateFromSelection failed: %v", err)
	}

	if booking.StartTime != "11:00" || booking.EndTime != "13:00" {
		t.Errorf("expected 11:00-13:00, got %s-%s", booking.StartTime, booking.EndTime)
	}
}

func TestCreateFromSelection_NonContiguous(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateFromSelection(context.Background(), &SelectionRequest{
		Date:          testDate,
		Slots:         []int{0, 2},
		CustomerName:  "Grace Hopper",
		CustomerPhone: "+12025550177",
	})
	wantAppError(t, err, apperrors.CodeValidation)
}

func TestCreateFromSelection_BookedSlot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// Slot 1 covers 10:00-11:00.
	if err := svc.Create(ctx, newBooking("10:00", "11:00")); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	_, err := svc.CreateFromSelection(ctx, &SelectionRequest{
		Date:          testDate,
		Slots:         []int{0, 1},
		CustomerName:  "Grace Hopper",
		CustomerPhone: "+12025550177",
	})
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestUpdateBooking_SelfOverlapAllowed(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()

	booking := newBooking("10:00", "11:00")
	if err := svc.Create(ctx, booking); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	// Extending over its own old interval must not self-conflict.
	err := svc.Update(ctx, booking.ID, &model.BookingUpdate{EndTime: "12:00"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := svc.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.EndTime != "12:00" {
		t.Errorf("expected end time 12:00, got %s", updated.EndTime)
	}
	if len(publisher.updated) != 1 {
		t.Errorf("expected 1 updated event, got %d", len(publisher.updated))
	}
}

func TestUpdateBooking_ConflictWithOther(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first := newBooking("10:00", "11:00")
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}
	second := newBooking("12:00", "13:00")
	if err := svc.Create(ctx, second); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	err := svc.Update(ctx, first.ID, &model.BookingUpdate{
		StartTime: "11:30",
		EndTime:   "12:30",
	})
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestCancelBooking(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()

	booking := newBooking("10:00", "11:00")
	if err := svc.Create(ctx, booking); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	if err := svc.Cancel(ctx, booking.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if len(publisher.cancelled) != 1 {
		t.Errorf("expected 1 cancelled event, got %d", len(publisher.cancelled))
	}

	// Cancelled bookings release their slots.
	if err := svc.Create(ctx, newBooking("10:00", "11:00")); err != nil {
		t.Fatalf("Create after cancel failed: %v", err)
	}

	err := svc.Cancel(ctx, booking.ID)
	wantAppError(t, err, apperrors.CodeConflict)
}

func TestAvailability(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("13:00", "15:00")); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	cancelled := newBooking("09:00", "10:00")
	if err := svc.Create(ctx, cancelled); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}
	if err := svc.Cancel(ctx, cancelled.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	availability, err := svc.Availability(ctx, testDate)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}

	if len(availability.Slots) != 9 {
		t.Fatalf("expected 9 slots, got %d", len(availability.Slots))
	}

	for _, slot := range availability.Slots {
		wantBooked := slot.Index == 4 || slot.Index == 5
		if slot.Booked != wantBooked {
			t.Errorf("slot %d (%s-%s): booked = %v, want %v",
				slot.Index, slot.StartTime, slot.EndTime, slot.Booked, wantBooked)
		}
	}
}

func TestBookedTimes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, newBooking("10:00", "11:00")); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}
	cancelled := newBooking("14:00", "15:00")
	if err := svc.Create(ctx, cancelled); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}
	if err := svc.Cancel(ctx, cancelled.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	ranges, err := svc.BookedTimes(ctx, testDate)
	if err != nil {
		t.Fatalf("BookedTimes failed: %v", err)
	}

	if len(ranges) != 1 {
		t.Fatalf("expected 1 booked range, got %d", len(ranges))
	}
	if ranges[0].StartTime != "10:00" || ranges[0].EndTime != "11:00" {
		t.Errorf("expected 10:00-11:00, got %s-%s", ranges[0].StartTime, ranges[0].EndTime)
	}
}

func TestDeleteBooking(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()

	booking := newBooking("10:00", "11:00")
	if err := svc.Create(ctx, booking); err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}

	if err := svc.Delete(ctx, booking.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(publisher.deleted) != 1 {
		t.Errorf("expected 1 deleted event, got %d", len(publisher.deleted))
	}

	_, err := svc.GetByID(ctx, booking.ID)
	wantAppError(t, err, apperrors.CodeNotFound)
}

func TestGetByID_EmptyID(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetByID(context.Background(), "")
	wantAppError(t, err, apperrors.CodeInvalidInput)
}

func TestPhoneNormalization(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	booking := newBooking("10:00", "11:00")
	booking.CustomerPhone = "(202) 555-0123"
	if err := svc.Create(ctx, booking); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stored := repo.byID[booking.ID]
	if stored.CustomerPhone != "+12025550123" {
		t.Errorf("expected normalized phone +12025550123, got %s", stored.CustomerPhone)
	}
}
