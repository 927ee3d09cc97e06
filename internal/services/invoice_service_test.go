package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

type mockInvoiceRepo struct {
	repository.InvoiceRepository
	mockFindByBooking func(ctx context.Context, bookingID uint) (*models.Invoice, error)
	mockCreate        func(ctx context.Context, invoice *models.Invoice) error
}

func (m *mockInvoiceRepo) FindByBooking(ctx context.Context, bookingID uint) (*models.Invoice, error) {
	if m.mockFindByBooking != nil {
		return m.mockFindByBooking(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, invoice)
	}
	return nil
}

// completedBooking mirrors the worked billing example: base 900, gst 50,
// extension entry base 1250 + gst 62.5, manual charge 95.
func completedBooking(id uint) *models.Booking {
	return &models.Booking{
		ID:          id,
		BookingCode: "BK-8",
		Status:      models.BookingStatusCompleted,
		Charges:     900,
		GST:         50,
		AdditionalChargesDetails: "Extend Trip 2026-02-01 10:00 -> 2026-02-03 10:00: base=1250.00, gst(5%)=62.50, total=1312.50" +
			" | Manual charges: Cleaning=95",
	}
}

func newTestInvoiceService(invoiceRepo *mockInvoiceRepo, bookingRepo *mockBookingFinder, chargeRepo *mockChargeRepo) *InvoiceService {
	return NewInvoiceService(invoiceRepo, bookingRepo, chargeRepo)
}

func invoiceBookingFinder(booking *models.Booking) *mockBookingFinder {
	return &mockBookingFinder{
		mockFindByID: func(ctx context.Context, id uint) (*models.Booking, error) {
			return booking, nil
		},
	}
}

func TestInvoiceService_GetForBooking_ComputesBreakdown(t *testing.T) {
	service := newTestInvoiceService(&mockInvoiceRepo{}, invoiceBookingFinder(completedBooking(8)), &mockChargeRepo{})

	view, err := service.GetForBooking(context.Background(), 8)
	require.NoError(t, err)

	assert.Equal(t, "BK-8", view.BookingCode)
	assert.True(t, view.GrandTotalIncludesAdvance)
	assert.Empty(t, view.InvoiceNumber)
	assert.Empty(t, view.Discrepancies)

	// 900 + 1250 + 95 = 2245 subtotal, 50 + 63 = 113 gst
	assert.InDelta(t, 2245, view.Breakdown.SubtotalBeforeGST, 0.001)
	assert.InDelta(t, 113, view.Breakdown.TotalGSTAmount, 0.001)
	assert.InDelta(t, 2358, view.Breakdown.GrandTotal, 0.001)
}

func TestInvoiceService_GetForBooking_IncludesPersistedCharges(t *testing.T) {
	chargeRepo := &mockChargeRepo{
		mockFindByBooking: func(ctx context.Context, bookingID uint) ([]models.AdditionalCharge, error) {
			return []models.AdditionalCharge{
				{ID: 1, BookingID: bookingID, Type: models.ChargeTypeChallan, Amount: 500},
			}, nil
		},
	}
	booking := &models.Booking{ID: 8, BookingCode: "BK-8", Status: models.BookingStatusCompleted, Charges: 900, GST: 50}
	service := newTestInvoiceService(&mockInvoiceRepo{}, invoiceBookingFinder(booking), chargeRepo)

	view, err := service.GetForBooking(context.Background(), 8)
	require.NoError(t, err)

	// Challan joins the subtotal untaxed
	assert.InDelta(t, 500, view.Breakdown.AdditionalChargesTotal, 0.001)
	assert.InDelta(t, 1400, view.Breakdown.SubtotalBeforeGST, 0.001)
	assert.InDelta(t, 50, view.Breakdown.TotalGSTAmount, 0.001)
}

func TestInvoiceService_GetForBooking_FlagsDiscrepancy(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{
		mockFindByBooking: func(ctx context.Context, bookingID uint) (*models.Invoice, error) {
			return &models.Invoice{
				BookingID:          bookingID,
				InvoiceNumber:      "INV-202602-8",
				SubtotalBeforeGST:  2245,
				TotalGSTAmount:     113,
				GrandTotal:         2500, // disagrees with computed 2358
				FinalAmountPayable: 2358,
				IssuedAt:           time.Now(),
			}, nil
		},
	}
	service := newTestInvoiceService(invoiceRepo, invoiceBookingFinder(completedBooking(8)), &mockChargeRepo{})

	view, err := service.GetForBooking(context.Background(), 8)
	require.NoError(t, err)

	assert.Equal(t, "INV-202602-8", view.InvoiceNumber)
	require.Len(t, view.Discrepancies, 1)
	assert.Equal(t, "grand_total", view.Discrepancies[0].Field)
	assert.InDelta(t, 2500, view.Discrepancies[0].Stored, 0.001)
	assert.InDelta(t, 2358, view.Discrepancies[0].Computed, 0.001)
}

func TestInvoiceService_GetForBooking_RoundingWobbleIsNotADiscrepancy(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{
		mockFindByBooking: func(ctx context.Context, bookingID uint) (*models.Invoice, error) {
			return &models.Invoice{
				BookingID:          bookingID,
				InvoiceNumber:      "INV-202602-8",
				SubtotalBeforeGST:  2245,
				TotalGSTAmount:     113,
				GrandTotal:         2359, // one rupee off, within tolerance
				FinalAmountPayable: 2358,
				IssuedAt:           time.Now(),
			}, nil
		},
	}
	service := newTestInvoiceService(invoiceRepo, invoiceBookingFinder(completedBooking(8)), &mockChargeRepo{})

	view, err := service.GetForBooking(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, view.Discrepancies)
}

func TestInvoiceService_Issue_RequiresCompletedBooking(t *testing.T) {
	booking := &models.Booking{ID: 3, Status: models.BookingStatusAccepted}
	service := newTestInvoiceService(&mockInvoiceRepo{}, invoiceBookingFinder(booking), &mockChargeRepo{})

	_, err := service.Issue(context.Background(), 3, 1)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestInvoiceService_Issue_OncePerBooking(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{
		mockFindByBooking: func(ctx context.Context, bookingID uint) (*models.Invoice, error) {
			return &models.Invoice{BookingID: bookingID, InvoiceNumber: "INV-202602-8"}, nil
		},
	}
	service := newTestInvoiceService(invoiceRepo, invoiceBookingFinder(completedBooking(8)), &mockChargeRepo{})

	_, err := service.Issue(context.Background(), 8, 1)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestInvoiceService_Issue_SnapshotsBreakdown(t *testing.T) {
	var created *models.Invoice
	invoiceRepo := &mockInvoiceRepo{
		mockCreate: func(ctx context.Context, invoice *models.Invoice) error {
			created = invoice
			return nil
		},
	}
	service := newTestInvoiceService(invoiceRepo, invoiceBookingFinder(completedBooking(8)), &mockChargeRepo{})

	invoice, err := service.Issue(context.Background(), 8, 1)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, invoice, created)
	assert.InDelta(t, 2245, created.SubtotalBeforeGST, 0.001)
	assert.InDelta(t, 113, created.TotalGSTAmount, 0.001)
	assert.InDelta(t, 2358, created.GrandTotal, 0.001)
	assert.InDelta(t, 2358, created.FinalAmountPayable, 0.001)
	assert.NotEmpty(t, created.InvoiceNumber)
}
