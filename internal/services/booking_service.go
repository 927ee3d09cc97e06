package services

import (
	"context"
	"fmt"
	"time"

	"github.com/torqride/rentals-api/internal/cache"
	"github.com/torqride/rentals-api/internal/jobs"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
	"github.com/torqride/rentals-api/internal/statemachine"
)

const transitionLockTTL = 10 * time.Second

// BookingService orchestrates the booking lifecycle. All status changes go
// through RequestTransition so locking, guard checks and the no-op rules are
// applied in one place regardless of which endpoint triggered the change.
type BookingService struct {
	repo            repository.BookingRepository
	vehicleRepo     repository.VehicleRepository
	locks           *cache.LockStore
	cacheStore      *cache.CacheStore
	worker          *jobs.Worker
	notificationSvc *NotificationService
	auditSvc        *AuditService
}

// NewBookingService creates a new booking service
func NewBookingService(
	repo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	locks *cache.LockStore,
	cacheStore *cache.CacheStore,
	worker *jobs.Worker,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
) *BookingService {
	return &BookingService{
		repo:            repo,
		vehicleRepo:     vehicleRepo,
		locks:           locks,
		cacheStore:      cacheStore,
		worker:          worker,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
	}
}

// FindByID loads a booking by ID
func (s *BookingService) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByIDWithDetails loads a booking with its associations
func (s *BookingService) FindByIDWithDetails(ctx context.Context, id uint) (*models.Booking, error) {
	return s.repo.FindByIDWithDetails(ctx, id)
}

// FindSummary returns the booking's identity and status, preferring the
// short-lived cache. Every mutation invalidates the cached entry, so this
// is safe for affordance checks that only need the current status.
func (s *BookingService) FindSummary(ctx context.Context, id uint) (*cache.CachedBooking, error) {
	if cached, err := s.cacheStore.GetBooking(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &cache.CachedBooking{
		ID:          booking.ID,
		BookingCode: booking.BookingCode,
		Status:      booking.Status,
		VehicleID:   booking.VehicleID,
		CustomerID:  booking.CustomerID,
	}
	_ = s.cacheStore.SetBooking(ctx, summary)
	return summary, nil
}

// List returns bookings matching the query with total count
func (s *BookingService) List(ctx context.Context, query *repository.BookingQuery) ([]models.Booking, int64, error) {
	return s.repo.List(ctx, query)
}

// Create persists a new booking in confirmed status
func (s *BookingService) Create(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}
	if !booking.EndDate.After(booking.StartDate) {
		return NewValidationError("end date must be after start date")
	}
	if active, err := s.repo.FindActiveByVehicle(ctx, booking.VehicleID); err == nil && active != nil {
		return NewConflictError(fmt.Sprintf("vehicle already on active booking %s", active.BookingCode))
	}
	return s.repo.Create(ctx, booking)
}

// TransitionRequest carries the operator's intent for a status change.
// EndTripKM is only consulted for the completed target; CancellationNote
// only for cancelled.
type TransitionRequest struct {
	Target           string
	EndTripKM        *float64
	CancellationNote *string
	ActorID          uint
	IP               string
	UserAgent        string
}

// RequestTransition applies a status change to a booking. Terminal bookings
// are rejected before any lock or write happens, and asking for the current
// status is an acknowledged no-op rather than an error. On success the
// booking is re-read from the database so callers always see the stored row,
// not the in-memory copy the transition mutated.
func (s *BookingService) RequestTransition(ctx context.Context, id uint, req *TransitionRequest) (*models.Booking, error) {
	booking, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == req.Target {
		// Already there; hand the row back untouched
		return booking, nil
	}

	if booking.IsTerminal() {
		return nil, NewConflictError(fmt.Sprintf("booking is already %s and cannot change status", booking.Status))
	}

	acquired, err := s.locks.AcquireTransitionLock(ctx, id, transitionLockTTL)
	if err != nil {
		return nil, &TransientError{Reason: "transition lock unavailable", Err: err}
	}
	if !acquired {
		return nil, NewConflictError("another status change for this booking is in progress")
	}
	defer func() {
		_ = s.locks.ReleaseTransitionLock(ctx, id)
	}()

	switch req.Target {
	case models.BookingStatusAccepted:
		err = s.accept(ctx, booking, req)
	case models.BookingStatusCancelled:
		err = s.cancel(ctx, booking, req)
	case models.BookingStatusCompleted:
		err = s.complete(ctx, booking, req)
	default:
		return nil, NewValidationError(fmt.Sprintf("unsupported target status %q", req.Target))
	}
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateBooking(ctx, id)
	}

	// Re-read so the response reflects exactly what was persisted
	return s.repo.FindByIDWithDetails(ctx, id)
}

func (s *BookingService) accept(ctx context.Context, booking *models.Booking, req *TransitionRequest) error {
	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Accept(ctx); err != nil {
		return NewConflictError(fmt.Sprintf("cannot accept booking: %v", err))
	}

	now := time.Now()
	booking.AcceptedAt = &now

	if err := s.repo.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to save accepted booking: %w", err)
	}

	s.markVehicle(ctx, booking.VehicleID, models.VehicleStatusOnTrip)

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, booking.CustomerID,
			"Booking accepted",
			fmt.Sprintf("Your booking %s has been accepted. Enjoy the ride!", booking.BookingCode),
			models.NotificationTypeBookingAccepted)
	})

	s.auditSvc.Log(ctx, req.ActorID, "ACCEPT", "Booking", booking.ID,
		fmt.Sprintf("Booking %s accepted", booking.BookingCode), req.IP, req.UserAgent)

	return nil
}

func (s *BookingService) cancel(ctx context.Context, booking *models.Booking, req *TransitionRequest) error {
	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Cancel(ctx); err != nil {
		return NewConflictError(fmt.Sprintf("cannot cancel booking: %v", err))
	}

	now := time.Now()
	booking.CancelledAt = &now
	booking.CancellationNote = req.CancellationNote

	if err := s.repo.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to save cancelled booking: %w", err)
	}

	s.markVehicle(ctx, booking.VehicleID, models.VehicleStatusAvailable)

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, booking.CustomerID,
			"Booking cancelled",
			fmt.Sprintf("Your booking %s has been cancelled.", booking.BookingCode),
			models.NotificationTypeBookingCancelled)
	})

	s.auditSvc.Log(ctx, req.ActorID, "CANCEL", "Booking", booking.ID,
		fmt.Sprintf("Booking %s cancelled", booking.BookingCode), req.IP, req.UserAgent)

	return nil
}

func (s *BookingService) complete(ctx context.Context, booking *models.Booking, req *TransitionRequest) error {
	// The closing odometer reading is the gate for completion. The request
	// value wins over whatever the trip recorded earlier.
	endKM := booking.EndTripKM
	if req.EndTripKM != nil {
		endKM = req.EndTripKM
	}
	if endKM == nil {
		return &PreconditionError{
			Code:   PreconditionEndTripKMRequired,
			Reason: "end trip km reading is required to complete a booking",
		}
	}
	if booking.StartTripKM != nil && *endKM <= *booking.StartTripKM {
		return NewValidationError(fmt.Sprintf(
			"end trip km (%.1f) must be greater than start trip km (%.1f)", *endKM, *booking.StartTripKM))
	}

	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Complete(ctx); err != nil {
		return NewConflictError(fmt.Sprintf("cannot complete booking: %v", err))
	}

	now := time.Now()
	booking.CompletedAt = &now
	booking.EndTripKM = endKM

	if err := s.repo.Update(ctx, booking); err != nil {
		return fmt.Errorf("failed to save completed booking: %w", err)
	}

	s.markVehicle(ctx, booking.VehicleID, models.VehicleStatusAvailable)
	s.syncVehicleOdometer(ctx, booking.VehicleID, *endKM)

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, booking.CustomerID,
			"Trip completed",
			fmt.Sprintf("Your booking %s is complete. Thanks for riding with us!", booking.BookingCode),
			models.NotificationTypeBookingCompleted)
	})

	s.auditSvc.Log(ctx, req.ActorID, "COMPLETE", "Booking", booking.ID,
		fmt.Sprintf("Booking %s completed, end reading %.1f km", booking.BookingCode, *endKM), req.IP, req.UserAgent)

	return nil
}

// ExtendTrip moves the booking's end date forward. The new end must be
// strictly after the current one; shrinking or same-day "extensions" are
// rejected before anything is written. The encoded extension entry itself
// is appended by the billing backend that owns AdditionalChargesDetails,
// so this service only moves the date and flags the trip as extended.
func (s *BookingService) ExtendTrip(ctx context.Context, id uint, newEndDate time.Time, req *TransitionRequest) (*models.Booking, error) {
	booking, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.IsTerminal() {
		return nil, NewConflictError(fmt.Sprintf("booking is already %s and cannot be extended", booking.Status))
	}
	if !newEndDate.After(booking.EndDate) {
		return nil, NewValidationError(fmt.Sprintf(
			"new end date %s must be after current end date %s",
			newEndDate.Format("2006-01-02 15:04"), booking.EndDate.Format("2006-01-02 15:04")))
	}

	acquired, err := s.locks.AcquireTransitionLock(ctx, id, transitionLockTTL)
	if err != nil {
		return nil, &TransientError{Reason: "transition lock unavailable", Err: err}
	}
	if !acquired {
		return nil, NewConflictError("another status change for this booking is in progress")
	}
	defer func() {
		_ = s.locks.ReleaseTransitionLock(ctx, id)
	}()

	fsm := statemachine.NewBookingFSM(booking)
	if err := fsm.Extend(ctx); err != nil {
		return nil, NewConflictError(fmt.Sprintf("cannot extend trip: %v", err))
	}

	booking.EndDate = newEndDate

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save extended booking: %w", err)
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateBooking(ctx, id)
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, booking.CustomerID,
			"Trip extended",
			fmt.Sprintf("Your booking %s now ends on %s.", booking.BookingCode, newEndDate.Format("02 Jan 2006 15:04")),
			models.NotificationTypeTripExtended)
	})

	s.auditSvc.Log(ctx, req.ActorID, "EXTEND", "Booking", booking.ID,
		fmt.Sprintf("Booking %s extended to %s", booking.BookingCode, newEndDate.Format(time.RFC3339)), req.IP, req.UserAgent)

	return s.repo.FindByIDWithDetails(ctx, id)
}

// FindOverdueReturns lists active bookings whose end date has passed
func (s *BookingService) FindOverdueReturns(ctx context.Context, asOf time.Time) ([]models.Booking, error) {
	return s.repo.FindOverdueReturns(ctx, asOf)
}

// NotifyOverdueReturns scans for overdue bookings and pings their customers.
// Scheduled hourly from main.
func (s *BookingService) NotifyOverdueReturns(ctx context.Context) error {
	overdue, err := s.repo.FindOverdueReturns(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to scan overdue returns: %w", err)
	}
	for _, booking := range overdue {
		b := booking
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyUser(ctx, b.CustomerID,
				"Return overdue",
				fmt.Sprintf("Booking %s was due back on %s. Late fees may apply.", b.BookingCode, b.EndDate.Format("02 Jan 2006 15:04")),
				models.NotificationTypeReturnOverdue)
		})
	}
	return nil
}

func (s *BookingService) markVehicle(ctx context.Context, vehicleID uint, status string) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return
	}
	vehicle.Status = status
	_ = s.vehicleRepo.Update(ctx, vehicle)
}

func (s *BookingService) syncVehicleOdometer(ctx context.Context, vehicleID uint, km float64) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return
	}
	if km > vehicle.OdometerKM {
		vehicle.OdometerKM = km
		_ = s.vehicleRepo.Update(ctx, vehicle)
	}
}
