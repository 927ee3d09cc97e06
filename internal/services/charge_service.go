package services

import (
	"context"
	"fmt"

	"github.com/torqride/rentals-api/internal/jobs"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

// ChargeService manages operator-entered additional charges. Rows are staged
// client-side and saved as one batch, so validation runs over the whole set
// before anything is written.
type ChargeService struct {
	repo            repository.ChargeRepository
	bookingRepo     repository.BookingRepository
	worker          *jobs.Worker
	notificationSvc *NotificationService
	auditSvc        *AuditService
}

// NewChargeService creates a new charge service
func NewChargeService(
	repo repository.ChargeRepository,
	bookingRepo repository.BookingRepository,
	worker *jobs.Worker,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
) *ChargeService {
	return &ChargeService{
		repo:            repo,
		bookingRepo:     bookingRepo,
		worker:          worker,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
	}
}

// ChargeInput is one staged charge row from the dashboard
type ChargeInput struct {
	Type   string  `json:"type" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Note   *string `json:"note"`
}

// ListForBooking returns the persisted charges of a booking, oldest first
func (s *ChargeService) ListForBooking(ctx context.Context, bookingID uint) ([]models.AdditionalCharge, error) {
	return s.repo.FindByBooking(ctx, bookingID)
}

// SaveAll validates and persists a batch of staged charges for a booking in
// one insert. The whole batch is rejected if any row fails validation; a
// partial save would leave the operator unsure which rows made it. The saved
// set is re-read so callers see server-assigned IDs and timestamps.
func (s *ChargeService) SaveAll(ctx context.Context, bookingID uint, inputs []ChargeInput, actorID uint) ([]models.AdditionalCharge, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, NewConflictError("cannot add charges to a cancelled booking")
	}

	if len(inputs) == 0 {
		return nil, NewValidationError("no charges to save")
	}

	charges := make([]models.AdditionalCharge, 0, len(inputs))
	for i, input := range inputs {
		if input.Type == "" || input.Type == models.ChargeTypePlaceholder {
			return nil, NewValidationError("charge %d: select a charge type", i+1)
		}
		if !models.IsAllowedChargeType(input.Type) {
			return nil, NewValidationError("charge %d: unknown charge type %q", i+1, input.Type)
		}
		if input.Amount <= 0 {
			return nil, NewValidationError("charge %d: amount must be greater than zero", i+1)
		}
		actor := actorID
		charges = append(charges, models.AdditionalCharge{
			BookingID: bookingID,
			Type:      input.Type,
			Amount:    input.Amount,
			Note:      input.Note,
			CreatedBy: &actor,
		})
	}

	if err := s.repo.CreateBatch(ctx, charges); err != nil {
		return nil, fmt.Errorf("failed to save charges: %w", err)
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, booking.CustomerID,
			"Charges added",
			fmt.Sprintf("%d additional charge(s) were added to booking %s.", len(charges), booking.BookingCode),
			models.NotificationTypeChargeAdded)
	})

	s.auditSvc.Log(ctx, actorID, "ADD_CHARGES", "Booking", bookingID,
		fmt.Sprintf("Added %d additional charge(s) to booking %s", len(charges), booking.BookingCode), "", "")

	return s.repo.FindByBooking(ctx, bookingID)
}

// Remove deletes a persisted charge. Staged rows never reach the server, so
// removing one of those is purely a client concern; this handles the rest.
func (s *ChargeService) Remove(ctx context.Context, bookingID, chargeID uint, actorID uint) error {
	charge, err := s.repo.FindByID(ctx, chargeID)
	if err != nil {
		return err
	}
	if charge.BookingID != bookingID {
		return NewValidationError("charge %d does not belong to booking %d", chargeID, bookingID)
	}

	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == models.BookingStatusCompleted {
		return NewConflictError("cannot remove charges from a completed booking")
	}

	if err := s.repo.Delete(ctx, chargeID); err != nil {
		return fmt.Errorf("failed to delete charge: %w", err)
	}

	s.auditSvc.Log(ctx, actorID, "REMOVE_CHARGE", "Booking", bookingID,
		fmt.Sprintf("Removed %s charge of %.2f from booking %s", charge.Type, charge.Amount, booking.BookingCode), "", "")

	return nil
}
