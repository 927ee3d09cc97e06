package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/pkg/logger"
	"gorm.io/gorm"
)

const analyticsCacheTTL = 15 * time.Minute

// AnalyticsService computes dashboard metrics with raw aggregate queries.
// Results are cached in redis so the dashboard's polling does not hammer
// the database; a cold or down redis just means recomputation.
type AnalyticsService struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{db: db, rdb: rdb}
}

// AnalyticsFilters narrows metrics to a store and/or date window
type AnalyticsFilters struct {
	StoreID   *uint
	StartDate *time.Time
	EndDate   *time.Time
}

// GetOverview returns the headline metrics block
func (s *AnalyticsService) GetOverview(ctx context.Context, filters AnalyticsFilters) (*models.AnalyticsOverview, error) {
	cacheKey := analyticsCacheKey("overview", filters)
	if cached := s.getCached(ctx, cacheKey); cached != nil {
		var overview models.AnalyticsOverview
		if json.Unmarshal(cached, &overview) == nil {
			return &overview, nil
		}
	}

	overview, err := s.computeOverview(ctx, filters)
	if err != nil {
		return nil, err
	}
	s.setCached(ctx, cacheKey, overview)
	return overview, nil
}

func (s *AnalyticsService) computeOverview(ctx context.Context, filters AnalyticsFilters) (*models.AnalyticsOverview, error) {
	base := s.db.WithContext(ctx).Model(&models.Booking{})
	base = applyFilters(base, filters)

	var overview models.AnalyticsOverview

	if err := base.Session(&gorm.Session{}).Count(&overview.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	countByStatus := func(statuses ...string) (int64, error) {
		var n int64
		err := base.Session(&gorm.Session{}).Where("status IN ?", statuses).Count(&n).Error
		return n, err
	}

	var err error
	if overview.ActiveBookings, err = countByStatus(
		models.BookingStatusAccepted, models.BookingStatusStartTrip,
		models.BookingStatusEndTrip, models.BookingStatusTripExtend); err != nil {
		return nil, err
	}
	if overview.CompletedBookings, err = countByStatus(models.BookingStatusCompleted); err != nil {
		return nil, err
	}
	if overview.CancelledBookings, err = countByStatus(models.BookingStatusCancelled); err != nil {
		return nil, err
	}

	// Revenue counts base charges plus GST, delivery and fees on completed
	// bookings, net of coupon discounts. Advance is a prepayment against
	// the same total, so it is deliberately not added again here.
	row := base.Session(&gorm.Session{}).
		Where("status = ?", models.BookingStatusCompleted).
		Select("COALESCE(SUM(charges + gst + delivery_charges + late_fee_charges + late_charges_km - coupon_amount), 0)").
		Row()
	if err := row.Scan(&overview.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	if overview.CompletedBookings > 0 {
		overview.AverageBookingValue = overview.TotalRevenue / float64(overview.CompletedBookings)
	}

	// Revenue change compares the trailing 30 days against the 30 before
	// that, independent of any explicit date filter.
	now := time.Now()
	current, err := s.revenueBetween(ctx, filters, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}
	previous, err := s.revenueBetween(ctx, filters, now.AddDate(0, 0, -60), now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	if previous > 0 {
		overview.RevenueChange = (current - previous) / previous * 100
	}

	var totalVehicles, onTrip int64
	if err := s.db.WithContext(ctx).Model(&models.Vehicle{}).
		Where("status <> ?", models.VehicleStatusRetired).Count(&totalVehicles).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Vehicle{}).
		Where("status = ?", models.VehicleStatusOnTrip).Count(&onTrip).Error; err != nil {
		return nil, err
	}
	if totalVehicles > 0 {
		overview.FleetUtilization = float64(onTrip) / float64(totalVehicles) * 100
	}

	return &overview, nil
}

func (s *AnalyticsService) revenueBetween(ctx context.Context, filters AnalyticsFilters, start, end time.Time) (float64, error) {
	db := s.db.WithContext(ctx).Model(&models.Booking{})
	if filters.StoreID != nil {
		db = db.Where("store_id = ?", *filters.StoreID)
	}

	var revenue float64
	row := db.
		Where("status = ? AND completed_at >= ? AND completed_at < ?", models.BookingStatusCompleted, start, end).
		Select("COALESCE(SUM(charges + gst + delivery_charges + late_fee_charges + late_charges_km - coupon_amount), 0)").
		Row()
	if err := row.Scan(&revenue); err != nil {
		return 0, fmt.Errorf("failed to sum period revenue: %w", err)
	}
	return revenue, nil
}

// GetMonthlyRevenue returns the revenue series for the trailing N months
func (s *AnalyticsService) GetMonthlyRevenue(ctx context.Context, filters AnalyticsFilters, months int) ([]models.MonthlyRevenuePoint, error) {
	if months <= 0 || months > 36 {
		months = 12
	}

	cacheKey := analyticsCacheKey(fmt.Sprintf("monthly_revenue_%d", months), filters)
	if cached := s.getCached(ctx, cacheKey); cached != nil {
		var series []models.MonthlyRevenuePoint
		if json.Unmarshal(cached, &series) == nil {
			return series, nil
		}
	}

	since := time.Now().AddDate(0, -months, 0)
	db := applyFilters(s.db.WithContext(ctx).Model(&models.Booking{}), filters)

	var series []models.MonthlyRevenuePoint
	err := db.
		Where("status = ? AND completed_at >= ?", models.BookingStatusCompleted, since).
		Select("to_char(completed_at, 'YYYY-MM') AS month, " +
			"COALESCE(SUM(charges + gst + delivery_charges + late_fee_charges + late_charges_km - coupon_amount), 0) AS revenue").
		Group("month").
		Order("month ASC").
		Scan(&series).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}

	s.setCached(ctx, cacheKey, series)
	return series, nil
}

// GetFleetDistribution counts vehicles per status
func (s *AnalyticsService) GetFleetDistribution(ctx context.Context, storeID *uint) (*models.FleetDistribution, error) {
	db := s.db.WithContext(ctx).Model(&models.Vehicle{})
	if storeID != nil {
		db = db.Where("store_id = ?", *storeID)
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count fleet: %w", err)
	}

	var dist models.FleetDistribution
	for _, row := range rows {
		switch row.Status {
		case models.VehicleStatusAvailable:
			dist.Available = row.Count
		case models.VehicleStatusOnTrip:
			dist.OnTrip = row.Count
		case models.VehicleStatusMaintenance:
			dist.Maintenance = row.Count
		case models.VehicleStatusRetired:
			dist.Retired = row.Count
		}
		dist.TotalVehicles += row.Count
	}
	return &dist, nil
}

// SnapshotDailyRevenue logs yesterday's revenue. Scheduled daily from main;
// the log line is the snapshot, picked up by the log pipeline.
func (s *AnalyticsService) SnapshotDailyRevenue(ctx context.Context) error {
	end := time.Now().Truncate(24 * time.Hour)
	start := end.Add(-24 * time.Hour)

	var revenue float64
	row := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ? AND completed_at >= ? AND completed_at < ?", models.BookingStatusCompleted, start, end).
		Select("COALESCE(SUM(charges + gst + delivery_charges + late_fee_charges + late_charges_km - coupon_amount), 0)").
		Row()
	if err := row.Scan(&revenue); err != nil {
		return fmt.Errorf("failed to snapshot revenue: %w", err)
	}

	logger.Info("daily revenue snapshot",
		"date", start.Format("2006-01-02"),
		"revenue", revenue)
	return nil
}

func applyFilters(db *gorm.DB, filters AnalyticsFilters) *gorm.DB {
	if filters.StoreID != nil {
		db = db.Where("store_id = ?", *filters.StoreID)
	}
	if filters.StartDate != nil {
		db = db.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		db = db.Where("created_at <= ?", *filters.EndDate)
	}
	return db
}

func analyticsCacheKey(name string, filters AnalyticsFilters) string {
	key := "analytics:" + name
	if filters.StoreID != nil {
		key += fmt.Sprintf(":store:%d", *filters.StoreID)
	}
	if filters.StartDate != nil {
		key += ":from:" + filters.StartDate.Format("2006-01-02")
	}
	if filters.EndDate != nil {
		key += ":to:" + filters.EndDate.Format("2006-01-02")
	}
	return key
}

func (s *AnalyticsService) getCached(ctx context.Context, key string) []byte {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (s *AnalyticsService) setCached(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, key, data, analyticsCacheTTL).Err()
}
