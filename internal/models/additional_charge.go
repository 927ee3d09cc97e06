package models

import (
	"strings"
	"time"
)

// AdditionalCharge is an ad-hoc operator-entered charge tied to one booking.
// These never accrue GST.
type AdditionalCharge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID uint      `gorm:"not null;index" json:"booking_id"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

// TableName specifies the table name for AdditionalCharge
func (AdditionalCharge) TableName() string {
	return "additional_charges"
}

// Controlled vocabulary for charge types. The UI placeholder ("Select Type")
// must never reach the database.
const (
	ChargeTypeChallan = "Challan"
	ChargeTypeDamage  = "Damage"
	ChargeTypeHelmet  = "Helmet"
	ChargeTypeFuel    = "Fuel"
	ChargeTypeOther   = "Other Charges"

	ChargeTypePlaceholder = "Select Type"
)

// AllowedChargeTypes lists the selectable charge categories
var AllowedChargeTypes = []string{
	ChargeTypeChallan,
	ChargeTypeDamage,
	ChargeTypeHelmet,
	ChargeTypeFuel,
	ChargeTypeOther,
}

// IsAllowedChargeType reports whether t is in the controlled vocabulary
func IsAllowedChargeType(t string) bool {
	for _, allowed := range AllowedChargeTypes {
		if strings.EqualFold(t, allowed) {
			return true
		}
	}
	return false
}

// AdditionalChargeResponse is the JSON response format
type AdditionalChargeResponse struct {
	ID        uint      `json:"id"`
	BookingID uint      `json:"booking_id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts AdditionalCharge to AdditionalChargeResponse
func (a *AdditionalCharge) ToResponse() AdditionalChargeResponse {
	return AdditionalChargeResponse{
		ID:        a.ID,
		BookingID: a.BookingID,
		Type:      a.Type,
		Amount:    a.Amount,
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
	}
}
