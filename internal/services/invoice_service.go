package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/torqride/rentals-api/internal/billing"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

// Amounts are whole rupees; anything past a one-rupee rounding wobble
// between the stored invoice and the recomputation is a real disagreement.
const invoiceTolerance = 1.0

// InvoiceService assembles the invoice view for a booking. The aggregator
// recomputes the breakdown on every read; if a backend-issued invoice row
// exists its totals are authoritative for display, but a disagreement with
// the recomputation is reported instead of silently preferring either side.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	bookingRepo repository.BookingRepository
	chargeRepo  repository.ChargeRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	bookingRepo repository.BookingRepository,
	chargeRepo repository.ChargeRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		bookingRepo: bookingRepo,
		chargeRepo:  chargeRepo,
	}
}

// Discrepancy reports a stored invoice figure that disagrees with the
// recomputed breakdown beyond rounding tolerance
type Discrepancy struct {
	Field    string  `json:"field"`
	Stored   float64 `json:"stored"`
	Computed float64 `json:"computed"`
}

// InvoiceView is the full invoice payload for one booking
type InvoiceView struct {
	BookingID     uint                     `json:"booking_id"`
	BookingCode   string                   `json:"booking_code"`
	InvoiceNumber string                   `json:"invoice_number,omitempty"`
	IssuedAt      *time.Time               `json:"issued_at,omitempty"`
	Breakdown     billing.InvoiceBreakdown `json:"breakdown"`

	// GrandTotal includes the advance amount; FinalAmountPayable deducts
	// it in full. The flag spells the convention out for API consumers.
	GrandTotalIncludesAdvance bool `json:"grand_total_includes_advance"`

	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
}

// GetForBooking computes the invoice view for a booking
func (s *InvoiceService) GetForBooking(ctx context.Context, bookingID uint) (*InvoiceView, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	charges, err := s.chargeRepo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load additional charges: %w", err)
	}

	breakdown := s.computeBreakdown(booking, charges)

	view := &InvoiceView{
		BookingID:                 booking.ID,
		BookingCode:               booking.BookingCode,
		Breakdown:                 breakdown,
		GrandTotalIncludesAdvance: true,
	}

	invoice, err := s.invoiceRepo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice != nil {
		view.InvoiceNumber = invoice.InvoiceNumber
		issued := invoice.IssuedAt
		view.IssuedAt = &issued
		view.Discrepancies = diffInvoice(invoice, breakdown)
	}

	return view, nil
}

// Issue persists an invoice snapshot for a completed booking. Each booking
// holds at most one invoice; issuing twice is a conflict.
func (s *InvoiceService) Issue(ctx context.Context, bookingID uint, actorID uint) (*models.Invoice, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, NewConflictError("invoice can only be issued for a completed booking")
	}

	existing, err := s.invoiceRepo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invoice: %w", err)
	}
	if existing != nil {
		return nil, NewConflictError("invoice %s already issued for this booking", existing.InvoiceNumber)
	}

	charges, err := s.chargeRepo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load additional charges: %w", err)
	}

	breakdown := s.computeBreakdown(booking, charges)
	now := time.Now()
	invoice := &models.Invoice{
		BookingID:          booking.ID,
		InvoiceNumber:      fmt.Sprintf("INV-%s-%d", now.Format("200601"), booking.ID),
		SubtotalBeforeGST:  breakdown.SubtotalBeforeGST,
		TotalGSTAmount:     breakdown.TotalGSTAmount,
		GrandTotal:         breakdown.GrandTotal,
		FinalAmountPayable: breakdown.FinalAmountPayable,
		IssuedAt:           now,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}

	return invoice, nil
}

func (s *InvoiceService) computeBreakdown(booking *models.Booking, charges []models.AdditionalCharge) billing.InvoiceBreakdown {
	billingCharges := make([]billing.AdditionalCharge, 0, len(charges))
	for _, c := range charges {
		billingCharges = append(billingCharges, billing.AdditionalCharge{Type: c.Type, Amount: c.Amount})
	}

	return billing.ComputeBreakdown(billing.BookingCharges{
		Charges:                  booking.Charges,
		GST:                      booking.GST,
		DeliveryCharges:          booking.DeliveryCharges,
		LateFeeCharges:           booking.LateFeeCharges,
		LateChargesKM:            booking.LateChargesKM,
		CouponAmount:             booking.CouponAmount,
		AdvanceAmount:            booking.AdvanceAmount,
		AdditionalChargesDetails: booking.AdditionalChargesDetails,
	}, billingCharges)
}

func diffInvoice(invoice *models.Invoice, breakdown billing.InvoiceBreakdown) []Discrepancy {
	var out []Discrepancy
	check := func(field string, stored, computed float64) {
		if math.Abs(stored-computed) > invoiceTolerance {
			out = append(out, Discrepancy{Field: field, Stored: stored, Computed: computed})
		}
	}
	check("subtotal_before_gst", invoice.SubtotalBeforeGST, breakdown.SubtotalBeforeGST)
	check("total_gst_amount", invoice.TotalGSTAmount, breakdown.TotalGSTAmount)
	check("grand_total", invoice.GrandTotal, breakdown.GrandTotal)
	check("final_amount_payable", invoice.FinalAmountPayable, breakdown.FinalAmountPayable)
	return out
}
