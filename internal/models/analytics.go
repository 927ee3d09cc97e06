package models

// AnalyticsOverview is the dashboard's headline metrics block
type AnalyticsOverview struct {
	TotalRevenue        float64 `json:"total_revenue"`
	RevenueChange       float64 `json:"revenue_change"` // % vs previous period
	TotalBookings       int64   `json:"total_bookings"`
	ActiveBookings      int64   `json:"active_bookings"`
	CompletedBookings   int64   `json:"completed_bookings"`
	CancelledBookings   int64   `json:"cancelled_bookings"`
	AverageBookingValue float64 `json:"average_booking_value"`
	FleetUtilization    float64 `json:"fleet_utilization"` // % of fleet on trip
}

// MonthlyRevenuePoint is one month of the revenue series
type MonthlyRevenuePoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// FleetDistribution counts vehicles per status
type FleetDistribution struct {
	Available     int64 `json:"available"`
	OnTrip        int64 `json:"on_trip"`
	Maintenance   int64 `json:"maintenance"`
	Retired       int64 `json:"retired"`
	TotalVehicles int64 `json:"total_vehicles"`
}
