package models

import (
	"time"
)

// Invoice is the backend-issued invoice record for a completed booking.
// It is a parallel representation of the billing breakdown: when present
// it is authoritative for display, but the aggregator recomputes alongside
// and any disagreement is surfaced, never papered over.
type Invoice struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	BookingID          uint      `gorm:"not null;uniqueIndex" json:"booking_id"`
	InvoiceNumber      string    `gorm:"uniqueIndex;not null" json:"invoice_number"`
	SubtotalBeforeGST  float64   `gorm:"type:decimal(12,2)" json:"subtotal_before_gst"`
	TotalGSTAmount     float64   `gorm:"type:decimal(12,2)" json:"total_gst_amount"`
	GrandTotal         float64   `gorm:"type:decimal(12,2)" json:"grand_total"`
	FinalAmountPayable float64   `gorm:"type:decimal(12,2)" json:"final_amount_payable"`
	IssuedAt           time.Time `json:"issued_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	Booking Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}
