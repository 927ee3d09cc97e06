package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/torqride/rentals-api/internal/models"
	"gorm.io/gorm"
)

// BookingRepository defines the interface for booking data access
type BookingRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Booking, error)
	FindByCode(ctx context.Context, code string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *BookingQuery) ([]models.Booking, int64, error)
	FindOverdueReturns(ctx context.Context, asOf time.Time) ([]models.Booking, error)
	FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Booking, error)
}

// BookingQuery extends ListQuery with booking-specific filters
type BookingQuery struct {
	*ListQuery
	Status     string
	StoreID    uint
	CustomerID uint
	VehicleID  uint
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Vehicle.PricingPlan").
		Preload("Store").
		Preload("AdditionalCharges").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Store").
		Where("booking_code = ?", code).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

func (r *bookingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

func (r *bookingRepository) List(ctx context.Context, query *BookingQuery) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Booking{}).
		Joins("Customer").
		Joins("Vehicle").
		Joins("Store")

	if query.Status != "" {
		db = db.Where("bookings.status = ?", query.Status)
	}
	if query.StoreID != 0 {
		db = db.Where("bookings.store_id = ?", query.StoreID)
	}
	if query.CustomerID != 0 {
		db = db.Where("bookings.customer_id = ?", query.CustomerID)
	}
	if query.VehicleID != 0 {
		db = db.Where("bookings.vehicle_id = ?", query.VehicleID)
	}

	if term := query.Filters["search_term"]; term != "" {
		like := "%" + strings.ToLower(term) + "%"
		db = db.Where(
			"LOWER(bookings.booking_code) LIKE ? OR LOWER(\"Customer\".full_name) LIKE ? OR LOWER(\"Vehicle\".registration_number) LIKE ?",
			like, like, like,
		)
	}
	if from := query.Filters["start_date"]; from != "" {
		db = db.Where("bookings.start_date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		db = db.Where("bookings.end_date <= ?", to)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(bookingSortClause(query.SortBy, query.SortDir)).
		Offset(query.Offset()).
		Limit(query.PerPage)

	if err := db.Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// bookingSortClause whitelists sortable columns to keep user input out of SQL
func bookingSortClause(sortBy, sortDir string) string {
	column := map[string]string{
		"created_at":   "bookings.created_at",
		"start_date":   "bookings.start_date",
		"end_date":     "bookings.end_date",
		"status":       "bookings.status",
		"booking_code": "bookings.booking_code",
	}[sortBy]
	if column == "" {
		column = "bookings.created_at"
	}

	dir := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		dir = "ASC"
	}

	return fmt.Sprintf("%s %s", column, dir)
}

func (r *bookingRepository) FindOverdueReturns(ctx context.Context, asOf time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Where("status IN ?", []string{
			models.BookingStatusAccepted,
			models.BookingStatusStartTrip,
			models.BookingStatusTripExtend,
		}).
		Where("end_date < ?", asOf).
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindActiveByVehicle(ctx context.Context, vehicleID uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Where("status NOT IN ?", []string{models.BookingStatusCompleted, models.BookingStatusCancelled}).
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}
