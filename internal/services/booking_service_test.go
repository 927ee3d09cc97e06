package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torqride/rentals-api/internal/cache"
	"github.com/torqride/rentals-api/internal/jobs"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

type mockBookingRepo struct {
	repository.BookingRepository
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.Booking, error)
	mockUpdate              func(ctx context.Context, booking *models.Booking) error
	updateCalls             int
}

func (m *mockBookingRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.Booking, error) {
	return m.mockFindByIDWithDetails(ctx, id)
}

func (m *mockBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	m.updateCalls++
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, booking)
	}
	return nil
}

type mockVehicleRepo struct {
	repository.VehicleRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Vehicle, error)
	mockUpdate   func(ctx context.Context, vehicle *models.Vehicle) error
}

func (m *mockVehicleRepo) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return &models.Vehicle{ID: id, Status: models.VehicleStatusOnTrip}, nil
}

func (m *mockVehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, vehicle)
	}
	return nil
}

type mockNotificationRepo struct {
	repository.NotificationRepository
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	return nil
}

func newTestBookingService(repo *mockBookingRepo, vehicleRepo *mockVehicleRepo) *BookingService {
	notificationSvc := NewNotificationService(&mockNotificationRepo{}, nil)
	return NewBookingService(
		repo,
		vehicleRepo,
		cache.NewLockStore(nil),
		cache.NewCacheStore(nil),
		jobs.NewWorker(1),
		notificationSvc,
		NewAuditService(nil),
	)
}

func floatPtr(v float64) *float64 { return &v }

func TestBookingService_RequestTransition_TerminalIsConflict(t *testing.T) {
	for _, status := range []string{models.BookingStatusCompleted, models.BookingStatusCancelled} {
		repo := &mockBookingRepo{}
		repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, BookingCode: "BK-100", Status: status}, nil
		}
		service := newTestBookingService(repo, &mockVehicleRepo{})

		result, err := service.RequestTransition(context.Background(), 1, &TransitionRequest{
			Target: models.BookingStatusAccepted,
		})
		assert.Nil(t, result)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Zero(t, repo.updateCalls, "terminal booking must not be written")
	}
}

func TestBookingService_RequestTransition_SameStatusIsNoOp(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: models.BookingStatusAccepted}, nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	result, err := service.RequestTransition(context.Background(), 1, &TransitionRequest{
		Target: models.BookingStatusAccepted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, result.Status)
	assert.Zero(t, repo.updateCalls)
}

func TestBookingService_Complete_RequiresEndTripKM(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{
			ID:          id,
			Status:      models.BookingStatusAccepted,
			StartTripKM: floatPtr(90),
		}, nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	result, err := service.RequestTransition(context.Background(), 1, &TransitionRequest{
		Target: models.BookingStatusCompleted,
	})
	assert.Nil(t, result)

	var precondition *PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, PreconditionEndTripKMRequired, precondition.Code)
	assert.Zero(t, repo.updateCalls)
}

func TestBookingService_Complete_EndKMMustExceedStartKM(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{
			ID:          id,
			Status:      models.BookingStatusAccepted,
			StartTripKM: floatPtr(150),
		}, nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	result, err := service.RequestTransition(context.Background(), 1, &TransitionRequest{
		Target:    models.BookingStatusCompleted,
		EndTripKM: floatPtr(90),
	})
	assert.Nil(t, result)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Zero(t, repo.updateCalls)
}

func TestBookingService_Complete_Succeeds(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{
			ID:          id,
			BookingCode: "BK-7",
			Status:      models.BookingStatusAccepted,
			VehicleID:   3,
			StartTripKM: floatPtr(90),
		}, nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	result, err := service.RequestTransition(context.Background(), 7, &TransitionRequest{
		Target:    models.BookingStatusCompleted,
		EndTripKM: floatPtr(150),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestBookingService_Accept_OnlyFromConfirmed(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: models.BookingStatusStartTrip}, nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	_, err := service.RequestTransition(context.Background(), 1, &TransitionRequest{
		Target: models.BookingStatusAccepted,
	})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Zero(t, repo.updateCalls)
}

func TestBookingService_Accept_SetsTimestamp(t *testing.T) {
	var saved *models.Booking
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{ID: id, BookingCode: "BK-1", Status: models.BookingStatusConfirmed}, nil
	}
	repo.mockUpdate = func(ctx context.Context, booking *models.Booking) error {
		saved = booking
		return nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	_, err := service.RequestTransition(context.Background(), 1, &TransitionRequest{
		Target: models.BookingStatusAccepted,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, models.BookingStatusAccepted, saved.Status)
	assert.NotNil(t, saved.AcceptedAt)
}

func TestBookingService_ExtendTrip_RejectsNonForwardDates(t *testing.T) {
	currentEnd := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: models.BookingStatusAccepted, EndDate: currentEnd}, nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	for _, newEnd := range []time.Time{currentEnd, currentEnd.Add(-24 * time.Hour)} {
		result, err := service.ExtendTrip(context.Background(), 1, newEnd, &TransitionRequest{})
		assert.Nil(t, result)

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
	}
	assert.Zero(t, repo.updateCalls)
}

func TestBookingService_ExtendTrip_MovesEndDate(t *testing.T) {
	currentEnd := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	newEnd := currentEnd.Add(48 * time.Hour)

	var saved *models.Booking
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{ID: id, BookingCode: "BK-9", Status: models.BookingStatusAccepted, EndDate: currentEnd}, nil
	}
	repo.mockUpdate = func(ctx context.Context, booking *models.Booking) error {
		saved = booking
		return nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	_, err := service.ExtendTrip(context.Background(), 9, newEnd, &TransitionRequest{})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, newEnd, saved.EndDate)
	assert.Equal(t, models.BookingStatusTripExtend, saved.Status)
}

func TestBookingService_ExtendTrip_TerminalIsConflict(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: models.BookingStatusCancelled, EndDate: time.Now()}, nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	_, err := service.ExtendTrip(context.Background(), 1, time.Now().Add(24*time.Hour), &TransitionRequest{})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Zero(t, repo.updateCalls)
}

func TestBookingService_Cancel_StoresNote(t *testing.T) {
	note := "customer no-show"
	var saved *models.Booking
	repo := &mockBookingRepo{}
	repo.mockFindByIDWithDetails = func(ctx context.Context, id uint) (*models.Booking, error) {
		return &models.Booking{ID: id, BookingCode: "BK-2", Status: models.BookingStatusAccepted}, nil
	}
	repo.mockUpdate = func(ctx context.Context, booking *models.Booking) error {
		saved = booking
		return nil
	}
	service := newTestBookingService(repo, &mockVehicleRepo{})

	_, err := service.RequestTransition(context.Background(), 2, &TransitionRequest{
		Target:           models.BookingStatusCancelled,
		CancellationNote: &note,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, models.BookingStatusCancelled, saved.Status)
	require.NotNil(t, saved.CancellationNote)
	assert.Equal(t, note, *saved.CancellationNote)
	assert.NotNil(t, saved.CancelledAt)
}
