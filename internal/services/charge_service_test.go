package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torqride/rentals-api/internal/jobs"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

type mockChargeRepo struct {
	repository.ChargeRepository
	mockFindByID      func(ctx context.Context, id uint) (*models.AdditionalCharge, error)
	mockFindByBooking func(ctx context.Context, bookingID uint) ([]models.AdditionalCharge, error)
	mockCreateBatch   func(ctx context.Context, charges []models.AdditionalCharge) error
	mockDelete        func(ctx context.Context, id uint) error
	createBatchCalls  int
}

func (m *mockChargeRepo) FindByID(ctx context.Context, id uint) (*models.AdditionalCharge, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockChargeRepo) FindByBooking(ctx context.Context, bookingID uint) ([]models.AdditionalCharge, error) {
	if m.mockFindByBooking != nil {
		return m.mockFindByBooking(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockChargeRepo) CreateBatch(ctx context.Context, charges []models.AdditionalCharge) error {
	m.createBatchCalls++
	if m.mockCreateBatch != nil {
		return m.mockCreateBatch(ctx, charges)
	}
	return nil
}

func (m *mockChargeRepo) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

type mockBookingFinder struct {
	repository.BookingRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Booking, error)
}

func (m *mockBookingFinder) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return m.mockFindByID(ctx, id)
}

func newTestChargeService(repo *mockChargeRepo, bookingRepo *mockBookingFinder) *ChargeService {
	notificationSvc := NewNotificationService(&mockNotificationRepo{}, nil)
	return NewChargeService(repo, bookingRepo, jobs.NewWorker(1), notificationSvc, NewAuditService(nil))
}

func activeBookingFinder() *mockBookingFinder {
	return &mockBookingFinder{
		mockFindByID: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, BookingCode: "BK-5", Status: models.BookingStatusAccepted}, nil
		},
	}
}

func TestChargeService_SaveAll_RejectsPlaceholderType(t *testing.T) {
	repo := &mockChargeRepo{}
	service := newTestChargeService(repo, activeBookingFinder())

	_, err := service.SaveAll(context.Background(), 5, []ChargeInput{
		{Type: models.ChargeTypeChallan, Amount: 500},
		{Type: models.ChargeTypePlaceholder, Amount: 200},
	}, 1)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Zero(t, repo.createBatchCalls, "invalid batch must not be written")
}

func TestChargeService_SaveAll_RejectsUnknownTypeAndNonPositiveAmount(t *testing.T) {
	repo := &mockChargeRepo{}
	service := newTestChargeService(repo, activeBookingFinder())

	var validation *ValidationError

	_, err := service.SaveAll(context.Background(), 5, []ChargeInput{
		{Type: "Parking", Amount: 100},
	}, 1)
	require.ErrorAs(t, err, &validation)

	_, err = service.SaveAll(context.Background(), 5, []ChargeInput{
		{Type: models.ChargeTypeFuel, Amount: 0},
	}, 1)
	require.ErrorAs(t, err, &validation)

	assert.Zero(t, repo.createBatchCalls)
}

func TestChargeService_SaveAll_PersistsBatchAndRefetches(t *testing.T) {
	var savedBatch []models.AdditionalCharge
	repo := &mockChargeRepo{
		mockCreateBatch: func(ctx context.Context, charges []models.AdditionalCharge) error {
			savedBatch = charges
			return nil
		},
		mockFindByBooking: func(ctx context.Context, bookingID uint) ([]models.AdditionalCharge, error) {
			return []models.AdditionalCharge{
				{ID: 11, BookingID: bookingID, Type: models.ChargeTypeChallan, Amount: 500},
				{ID: 12, BookingID: bookingID, Type: models.ChargeTypeHelmet, Amount: 150},
			}, nil
		},
	}
	service := newTestChargeService(repo, activeBookingFinder())

	result, err := service.SaveAll(context.Background(), 5, []ChargeInput{
		{Type: models.ChargeTypeChallan, Amount: 500},
		{Type: models.ChargeTypeHelmet, Amount: 150},
	}, 42)
	require.NoError(t, err)

	require.Len(t, savedBatch, 2)
	assert.Equal(t, uint(5), savedBatch[0].BookingID)
	require.NotNil(t, savedBatch[0].CreatedBy)
	assert.Equal(t, uint(42), *savedBatch[0].CreatedBy)

	// The returned rows are the re-read, with server-assigned IDs
	require.Len(t, result, 2)
	assert.Equal(t, uint(11), result[0].ID)
}

func TestChargeService_SaveAll_CancelledBookingIsConflict(t *testing.T) {
	repo := &mockChargeRepo{}
	bookingRepo := &mockBookingFinder{
		mockFindByID: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, Status: models.BookingStatusCancelled}, nil
		},
	}
	service := newTestChargeService(repo, bookingRepo)

	_, err := service.SaveAll(context.Background(), 5, []ChargeInput{
		{Type: models.ChargeTypeDamage, Amount: 900},
	}, 1)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Zero(t, repo.createBatchCalls)
}

func TestChargeService_Remove_ChecksOwnership(t *testing.T) {
	repo := &mockChargeRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.AdditionalCharge, error) {
			return &models.AdditionalCharge{ID: id, BookingID: 99, Type: models.ChargeTypeFuel, Amount: 100}, nil
		},
	}
	service := newTestChargeService(repo, activeBookingFinder())

	err := service.Remove(context.Background(), 5, 7, 1)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestChargeService_Remove_CompletedBookingIsConflict(t *testing.T) {
	repo := &mockChargeRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.AdditionalCharge, error) {
			return &models.AdditionalCharge{ID: id, BookingID: 5, Type: models.ChargeTypeFuel, Amount: 100}, nil
		},
	}
	bookingRepo := &mockBookingFinder{
		mockFindByID: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, Status: models.BookingStatusCompleted}, nil
		},
	}
	service := newTestChargeService(repo, bookingRepo)

	err := service.Remove(context.Background(), 5, 7, 1)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}
