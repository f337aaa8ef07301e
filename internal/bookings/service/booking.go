package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "cafebook/internal/bookings/errors"
	"cafebook/internal/bookings/events"
	"cafebook/internal/bookings/repository"
	"cafebook/internal/bookings/validator"
	"cafebook/internal/slots"
	"cafebook/pkg/config"
	apperrors "cafebook/pkg/errors"
	"cafebook/pkg/model"
	"cafebook/pkg/sanitizer"
)

// SlotView is one grid slot with its booked state for a given date.
type SlotView struct {
	Index     int    `json:"index"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Booked    bool   `json:"booked"`
}

// DayAvailability is the full projected grid for one date.
type DayAvailability struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}

// TimeRange is a booked interval as exposed to the booking page.
type TimeRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SelectionRequest books by slot indices instead of explicit times.
type SelectionRequest struct {
	Date          string `json:"date"`
	Slots         []int  `json:"slots"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	CreateFromSelection(ctx context.Context, req *SelectionRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByDate(ctx context.Context, date string) ([]*model.Booking, error)
	Availability(ctx context.Context, date string) (*DayAvailability, error)
	BookedTimes(ctx context.Context, date string) ([]TimeRange, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo          repository.BookingRepository
	lockRepo      repository.BookingLockRepository
	validator     *validator.BookingValidator
	publisher     events.Publisher
	grid          []slots.SlotUnit
	slotValidator *slots.Validator
	cfg           *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) (BookingService, error) {
	gridCfg := slots.GridConfig{
		OpenHour:          cfg.OpenHour,
		CloseHour:         cfg.CloseHour,
		SlotLengthMinutes: cfg.SlotLengthMin,
	}

	grid, err := slots.Grid(gridCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid slot grid configuration: %w", err)
	}

	slotValidator, err := slots.NewValidator(gridCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid slot grid configuration: %w", err)
	}

	return &bookingService{
		repo:          repo,
		lockRepo:      lockRepo,
		validator:     bookingValidator,
		publisher:     publisher,
		grid:          grid,
		slotValidator: slotValidator,
		cfg:           cfg,
	}, nil
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	// Fail fast before taking the lock; the transaction re-checks.
	if err := s.verifyNoConflict(ctx, booking, ""); err != nil {
		return err
	}

	// Acquire advisory lock to prevent race conditions
	lockID, err := s.acquireSlotLock(ctx, booking.Date, booking.StartTime)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.publisher.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return nil
}

// CreateFromSelection reduces a set of slot indices to a contiguous interval
// and books it. The indices must be free and adjacent on the requested date.
func (s *bookingService) CreateFromSelection(ctx context.Context, req *SelectionRequest) (*model.Booking, error) {
	date, err := slots.ParseDateKey(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	existing, err := s.loadDayBookings(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	avail := slots.Project(date, s.grid, existing)
	interval, err := slots.Reduce(req.Slots, s.grid, avail, date)
	if err != nil {
		return nil, mapSlotError(err)
	}

	booking := &model.Booking{
		Date:          req.Date,
		StartTime:     interval.Start.String(),
		EndTime:       interval.End.String(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}

	if err := s.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	if _, err := slots.ParseDateKey(date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	bookings, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by date", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// Availability projects the day's bookings onto the slot grid. Cancelled
// bookings never block a slot.
func (s *bookingService) Availability(ctx context.Context, date string) (*DayAvailability, error) {
	dateKey, err := slots.ParseDateKey(date)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	existing, err := s.loadDayBookings(ctx, date)
	if err != nil {
		return nil, err
	}

	avail := slots.Project(dateKey, s.grid, existing)

	views := make([]SlotView, len(s.grid))
	for i, unit := range s.grid {
		views[i] = SlotView{
			Index:     unit.Index,
			StartTime: unit.Start.String(),
			EndTime:   unit.End.String(),
			Booked:    avail[i].Booked,
		}
	}

	return &DayAvailability{
		Date:  date,
		Slots: views,
	}, nil
}

// BookedTimes returns the active intervals on a date, oldest first.
func (s *bookingService) BookedTimes(ctx context.Context, date string) ([]TimeRange, error) {
	bookings, err := s.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	ranges := make([]TimeRange, 0, len(bookings))
	for _, b := range bookings {
		if b.IsCancelled() {
			continue
		}
		ranges = append(ranges, TimeRange{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}

	return ranges, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}
	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// The booking under edit must not conflict with itself.
		if err := s.verifyNoConflict(sessCtx, merged, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return err
	}

	merged.ID = id
	if merged.IsCancelled() && !existing.IsCancelled() {
		s.publisher.BookingCancelled(ctx, merged)
	} else {
		s.publisher.BookingUpdated(ctx, merged)
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return nil
}

// Cancel marks a booking cancelled without deleting it; the record stays
// for audit but stops blocking its slots.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.IsCancelled() {
		return apperrors.Conflict("Booking is already cancelled")
	}

	booking.Status = model.StatusCancelled
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.Update(sessCtx, id, booking); err != nil {
			return apperrors.Internal("Failed to cancel booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return err
	}

	s.publisher.BookingCancelled(ctx, booking)

	s.cfg.Log.Info("Booking cancelled successfully", "id", id)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			if errors.Is(err, bookingserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid booking ID format")
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.BookingDeleted(ctx, booking)

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerName = sanitizer.SanitizeName(b.CustomerName)
	if normalized := sanitizer.NormalizePhone(b.CustomerPhone); normalized != "" {
		b.CustomerPhone = normalized
	}
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.Date != "" {
		merged.Date = updates.Date
	}
	if updates.StartTime != "" {
		merged.StartTime = updates.StartTime
	}
	if updates.EndTime != "" {
		merged.EndTime = updates.EndTime
	}
	if updates.CustomerName != "" {
		merged.CustomerName = updates.CustomerName
	}
	if updates.CustomerPhone != "" {
		merged.CustomerPhone = updates.CustomerPhone
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// loadDayBookings fetches a date's bookings in the engine representation.
// Records with unparsable times are skipped with a warning; they predate
// schema validation and cannot participate in overlap math.
func (s *bookingService) loadDayBookings(ctx context.Context, date string) ([]slots.Booking, error) {
	stored, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}

	existing := make([]slots.Booking, 0, len(stored))
	for _, b := range stored {
		sb, err := b.SlotBooking()
		if err != nil {
			s.cfg.Log.Warn("Skipping booking with malformed times", "id", b.ID, "error", err)
			continue
		}
		existing = append(existing, sb)
	}

	return existing, nil
}

func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking, excludeID string) error {
	interval, err := booking.Interval()
	if err != nil {
		return apperrors.Validation("Booking times are malformed", map[string]any{"error": err.Error()})
	}

	existing, err := s.loadDayBookings(ctx, booking.Date)
	if err != nil {
		return err
	}

	if _, err := s.slotValidator.Validate(interval, existing, excludeID); err != nil {
		return mapSlotError(err)
	}

	return nil
}

// mapSlotError translates engine errors into API errors.
func mapSlotError(err error) error {
	var overlap *slots.OverlapConflictError
	if errors.As(err, &overlap) {
		return apperrors.ConflictWithDetails(
			"Requested time overlaps an existing booking",
			map[string]any{"conflicting_ids": overlap.ConflictingIDs},
		)
	}

	var booked *slots.SlotAlreadyBookedError
	if errors.As(err, &booked) {
		return apperrors.ConflictWithDetails(
			"One or more selected slots are already booked",
			map[string]any{"booked_slots": booked.Indices},
		)
	}

	var outside *slots.OutsideOperatingHoursError
	if errors.As(err, &outside) {
		return apperrors.Validation(
			fmt.Sprintf("Booking must fall within operating hours (%s - %s)", outside.Open, outside.Close),
			nil,
		)
	}

	var gap *slots.NonContiguousSelectionError
	if errors.As(err, &gap) {
		return apperrors.Validation("Selected slots must be adjacent", map[string]any{"slots": gap.Indices})
	}

	var unknown *slots.UnknownSlotError
	if errors.As(err, &unknown) {
		return apperrors.InvalidInput(fmt.Sprintf("Slot index %d does not exist", unknown.Index))
	}

	if errors.Is(err, slots.ErrEmptySelection) {
		return apperrors.InvalidInput("At least one slot must be selected")
	}

	if errors.Is(err, slots.ErrEmptyOrInvertedInterval) {
		return apperrors.Validation("End time must be after start time", nil)
	}

	return apperrors.Validation("Booking interval is invalid", map[string]any{"error": err.Error()})
}

// acquireSlotLock creates an advisory lock to prevent concurrent booking creation
// Returns the lock ID if successful, or conflict error if lock already exists
func (s *bookingService) acquireSlotLock(ctx context.Context, date, startTime string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s", date, startTime)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second), // Auto-expire after 10 seconds
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

// releaseSlotLock removes the advisory lock
func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
