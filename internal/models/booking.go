package models

import (
	"time"
)

// Booking represents a single bike-rental reservation/trip.
// All charge columns are whole-rupee oriented but stored as decimals;
// rounding happens in the billing package, never here.
type Booking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BookingCode string    `gorm:"uniqueIndex;not null" json:"booking_code"` // human-facing, immutable
	CustomerID  uint      `gorm:"not null;index" json:"customer_id"`
	VehicleID   uint      `gorm:"not null;index" json:"vehicle_id"`
	StoreID     uint      `gorm:"not null;index" json:"store_id"`
	StartDate   time.Time `gorm:"not null;index" json:"start_date"`
	EndDate     time.Time `gorm:"not null;index" json:"end_date"` // mutable only via ExtendTrip
	Status      string    `gorm:"default:confirmed;index" json:"status"`

	// Charge fields, all non-negative. CouponAmount is a discount and
	// AdvanceAmount a prepayment; both are handled by the aggregator.
	Charges         float64 `gorm:"type:decimal(12,2);default:0" json:"charges"` // base rental
	GST             float64 `gorm:"column:gst;type:decimal(12,2);default:0" json:"gst"`
	DeliveryCharges float64 `gorm:"type:decimal(12,2);default:0" json:"delivery_charges"`
	LateFeeCharges  float64 `gorm:"type:decimal(12,2);default:0" json:"late_fee_charges"`
	LateChargesKM   float64 `gorm:"column:late_charges_km;type:decimal(12,2);default:0" json:"late_charges_km"`
	CouponAmount    float64 `gorm:"type:decimal(12,2);default:0" json:"coupon_amount"`
	AdvanceAmount   float64 `gorm:"type:decimal(12,2);default:0" json:"advance_amount"`

	// Trip odometer readings
	StartTripKM *float64 `gorm:"column:start_trip_km;type:decimal(10,1)" json:"start_trip_km"`
	EndTripKM   *float64 `gorm:"column:end_trip_km;type:decimal(10,1)" json:"end_trip_km"`

	// Backend-owned encoded string holding trip-extension and manual-charge
	// entries. Read-only for this service's display path; parsed by the
	// billing package and never interpreted anywhere else.
	AdditionalChargesDetails string `gorm:"type:text" json:"additional_charges_details"`

	CancellationNote *string    `gorm:"type:text" json:"cancellation_note"`
	AcceptedAt       *time.Time `gorm:"index" json:"accepted_at"`
	CompletedAt      *time.Time `gorm:"index" json:"completed_at"`
	CancelledAt      *time.Time `json:"cancelled_at"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Customer          User               `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vehicle           Vehicle            `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Store             Store              `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	AdditionalCharges []AdditionalCharge `gorm:"foreignKey:BookingID" json:"additional_charges,omitempty"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Booking status constants. The first four form the dropdown-driven state
// machine; the operational sub-states are surfaced by trip events and gate
// tracker/exchange affordances without being dropdown-reachable.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusAccepted  = "accepted"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"

	BookingStatusStartTrip  = "start_trip"
	BookingStatusEndTrip    = "end_trip"
	BookingStatusTripExtend = "trip_extend"
)

// IsTerminal returns true for statuses with no outgoing transitions
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// MayAccept returns true if the booking can transition to accepted
func (b *Booking) MayAccept() bool {
	return b.Status == BookingStatusConfirmed
}

// MayCancel returns true if the booking can be cancelled. Trip sub-states
// count as accepted here: they describe vehicle whereabouts, not a
// different lifecycle stage.
func (b *Booking) MayCancel() bool {
	return b.OnTrip() || b.Status == BookingStatusEndTrip
}

// MayComplete returns true if the booking can be completed
func (b *Booking) MayComplete() bool {
	return b.OnTrip() || b.Status == BookingStatusEndTrip
}

// OnTrip returns true while the vehicle is out with the customer
func (b *Booking) OnTrip() bool {
	switch b.Status {
	case BookingStatusAccepted, BookingStatusStartTrip, BookingStatusTripExtend:
		return true
	}
	return false
}

// BookingResponse is the JSON response format for bookings
type BookingResponse struct {
	ID                 uint       `json:"id"`
	BookingCode        string     `json:"booking_code"`
	CustomerID         uint       `json:"customer_id"`
	CustomerName       string     `json:"customer_name"`
	CustomerPhone      string     `json:"customer_phone"`
	VehicleID          uint       `json:"vehicle_id"`
	VehicleModel       string     `json:"vehicle_model"`
	RegistrationNumber string     `json:"registration_number"`
	StoreID            uint       `json:"store_id"`
	StoreName          string     `json:"store_name"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	Status             string     `json:"status"`
	Charges            float64    `json:"charges"`
	GST                float64    `json:"gst"`
	DeliveryCharges    float64    `json:"delivery_charges"`
	LateFeeCharges     float64    `json:"late_fee_charges"`
	LateChargesKM      float64    `json:"late_charges_km"`
	CouponAmount       float64    `json:"coupon_amount"`
	AdvanceAmount      float64    `json:"advance_amount"`
	StartTripKM        *float64   `json:"start_trip_km"`
	EndTripKM          *float64   `json:"end_trip_km"`
	CancellationNote   *string    `json:"cancellation_note"`
	AcceptedAt         *time.Time `json:"accepted_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToResponse converts Booking to BookingResponse
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		BookingCode:        b.BookingCode,
		CustomerID:         b.CustomerID,
		CustomerName:       b.Customer.FullName,
		CustomerPhone:      b.Customer.Phone,
		VehicleID:          b.VehicleID,
		VehicleModel:       b.Vehicle.Model,
		RegistrationNumber: b.Vehicle.RegistrationNumber,
		StoreID:            b.StoreID,
		StoreName:          b.Store.Name,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		Status:             b.Status,
		Charges:            b.Charges,
		GST:                b.GST,
		DeliveryCharges:    b.DeliveryCharges,
		LateFeeCharges:     b.LateFeeCharges,
		LateChargesKM:      b.LateChargesKM,
		CouponAmount:       b.CouponAmount,
		AdvanceAmount:      b.AdvanceAmount,
		StartTripKM:        b.StartTripKM,
		EndTripKM:          b.EndTripKM,
		CancellationNote:   b.CancellationNote,
		AcceptedAt:         b.AcceptedAt,
		CompletedAt:        b.CompletedAt,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
