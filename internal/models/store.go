package models

import (
	"time"
)

// Store represents a rental store location
type Store struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Address   string    `gorm:"not null" json:"address"`
	City      string    `gorm:"index" json:"city"`
	Phone     string    `json:"phone"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Vehicles []Vehicle `gorm:"foreignKey:StoreID" json:"vehicles,omitempty"`
	Managers []User    `gorm:"foreignKey:StoreID" json:"managers,omitempty"`
}

// TableName specifies the table name for Store
func (Store) TableName() string {
	return "stores"
}

// Vehicle represents a rentable bike
type Vehicle struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	StoreID            uint      `gorm:"not null;index" json:"store_id"`
	PricingPlanID      *uint     `gorm:"index" json:"pricing_plan_id"`
	Model              string    `gorm:"not null;index" json:"model"`
	RegistrationNumber string    `gorm:"uniqueIndex;not null" json:"registration_number"`
	DeviceID           string    `gorm:"index" json:"device_id"` // GPS tracker device
	OdometerKM         float64   `gorm:"type:decimal(10,1);default:0" json:"odometer_km"`
	EngineOn           bool      `gorm:"default:false" json:"engine_on"`
	Status             string    `gorm:"default:available;index" json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Associations
	Store       Store        `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	PricingPlan *PricingPlan `gorm:"foreignKey:PricingPlanID" json:"pricing_plan,omitempty"`
}

// TableName specifies the table name for Vehicle
func (Vehicle) TableName() string {
	return "vehicles"
}

// Vehicle status constants
const (
	VehicleStatusAvailable   = "available"
	VehicleStatusOnTrip      = "on_trip"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusRetired     = "retired"
)

// HasTracker returns true if the vehicle has a GPS device fitted
func (v *Vehicle) HasTracker() bool {
	return v.DeviceID != ""
}
