package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
	"gorm.io/gorm"
)

type mockPricingRepo struct {
	repository.PricingRepository
	mockFindEffectiveByModel func(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error)
	mockCreate               func(ctx context.Context, plan *models.PricingPlan) error
	mockUpdate               func(ctx context.Context, plan *models.PricingPlan) error
}

func (m *mockPricingRepo) FindEffectiveByModel(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error) {
	return m.mockFindEffectiveByModel(ctx, model, at)
}

func (m *mockPricingRepo) Create(ctx context.Context, plan *models.PricingPlan) error {
	return m.mockCreate(ctx, plan)
}

func (m *mockPricingRepo) Update(ctx context.Context, plan *models.PricingPlan) error {
	return m.mockUpdate(ctx, plan)
}

func standardPlan() *models.PricingPlan {
	return &models.PricingPlan{
		ID:           7,
		Model:        "Classic 350",
		HourlyRate:   80,
		DailyRate:    900,
		WeeklyRate:   5000,
		FreeKMPerDay: 100,
		GSTPercent:   5,
		Active:       true,
	}
}

func TestQuoteRental_WholeDays(t *testing.T) {
	repo := &mockPricingRepo{
		mockFindEffectiveByModel: func(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error) {
			return standardPlan(), nil
		},
	}
	svc := NewPricingService(repo, NewAuditService(nil))

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	quote, err := svc.QuoteRental(context.Background(), "Classic 350", start, start.Add(72*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2700.0, quote.BaseCharge)
	assert.Equal(t, 135.0, quote.GST)
	assert.Equal(t, 2835.0, quote.Total)
	assert.Equal(t, 300.0, quote.FreeKM)
}

func TestQuoteRental_HourlyRemainderCappedAtDailyRate(t *testing.T) {
	repo := &mockPricingRepo{
		mockFindEffectiveByModel: func(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error) {
			return standardPlan(), nil
		},
	}
	svc := NewPricingService(repo, NewAuditService(nil))

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// 2 days + 5 hours bills the remainder hourly.
	quote, err := svc.QuoteRental(context.Background(), "Classic 350", start, start.Add(53*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2200.0, quote.BaseCharge)

	// 2 days + 20 hours would cost 1600 hourly, so it caps at one daily rate.
	quote, err = svc.QuoteRental(context.Background(), "Classic 350", start, start.Add(68*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2700.0, quote.BaseCharge)
}

func TestQuoteRental_WeeklyRateForSevenDayChunks(t *testing.T) {
	repo := &mockPricingRepo{
		mockFindEffectiveByModel: func(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error) {
			return standardPlan(), nil
		},
	}
	svc := NewPricingService(repo, NewAuditService(nil))

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	quote, err := svc.QuoteRental(context.Background(), "Classic 350", start, start.Add(10*24*time.Hour))
	require.NoError(t, err)

	// One week at the weekly rate plus three days at the daily rate.
	assert.Equal(t, 7700.0, quote.BaseCharge)
}

func TestQuoteRental_NoEffectivePlan(t *testing.T) {
	repo := &mockPricingRepo{
		mockFindEffectiveByModel: func(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewPricingService(repo, NewAuditService(nil))

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.QuoteRental(context.Background(), "Unknown Model", start, start.Add(24*time.Hour))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestQuoteRental_RejectsInvertedWindow(t *testing.T) {
	svc := NewPricingService(&mockPricingRepo{}, NewAuditService(nil))

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.QuoteRental(context.Background(), "Classic 350", start, start)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreatePlan_ExpiresCurrentEffectivePlan(t *testing.T) {
	current := standardPlan()
	var updated *models.PricingPlan

	repo := &mockPricingRepo{
		mockFindEffectiveByModel: func(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error) {
			return current, nil
		},
		mockUpdate: func(ctx context.Context, plan *models.PricingPlan) error {
			updated = plan
			return nil
		},
		mockCreate: func(ctx context.Context, plan *models.PricingPlan) error {
			plan.ID = 8
			return nil
		},
	}
	svc := NewPricingService(repo, NewAuditService(nil))

	next := &models.PricingPlan{Model: "Classic 350", HourlyRate: 90, DailyRate: 950, GSTPercent: 5}
	require.NoError(t, svc.Create(context.Background(), next, 1))

	require.NotNil(t, updated)
	assert.Equal(t, current.ID, updated.ID)
	assert.NotNil(t, updated.EffectiveTo)
	assert.Equal(t, uint(8), next.ID)
}

func TestCreatePlan_RejectsNonPositiveRates(t *testing.T) {
	svc := NewPricingService(&mockPricingRepo{}, NewAuditService(nil))

	err := svc.Create(context.Background(), &models.PricingPlan{Model: "Classic 350", DailyRate: 900}, 1)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}
