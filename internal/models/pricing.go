package models

import (
	"time"
)

// PricingPlan represents rental pricing master data for a bike model
type PricingPlan struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Model        string     `gorm:"not null;index" json:"model"`
	HourlyRate   float64    `gorm:"type:decimal(10,2);not null" json:"hourly_rate"`
	DailyRate    float64    `gorm:"type:decimal(10,2);not null" json:"daily_rate"`
	WeeklyRate   float64    `gorm:"type:decimal(10,2)" json:"weekly_rate"`
	ExtraKMRate  float64    `gorm:"type:decimal(10,2)" json:"extra_km_rate"`
	LateFeeRate  float64    `gorm:"type:decimal(10,2)" json:"late_fee_rate"` // per hour past end date
	FreeKMPerDay float64    `gorm:"type:decimal(10,1);default:0" json:"free_km_per_day"`
	GSTPercent   float64    `gorm:"type:decimal(5,2);default:5" json:"gst_percent"`
	Active       bool       `gorm:"default:true;index" json:"active"`
	EffectiveTo  *time.Time `json:"effective_to"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for PricingPlan
func (PricingPlan) TableName() string {
	return "pricing_plans"
}

// IsEffective returns true if the plan is active and not expired
func (p *PricingPlan) IsEffective(at time.Time) bool {
	if !p.Active {
		return false
	}
	if p.EffectiveTo != nil && at.After(*p.EffectiveTo) {
		return false
	}
	return true
}
