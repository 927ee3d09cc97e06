package repository

import (
	"context"

	"github.com/torqride/rentals-api/internal/models"
	"gorm.io/gorm"
)

// ChargeRepository defines the interface for additional-charge data access
type ChargeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.AdditionalCharge, error)
	FindByBooking(ctx context.Context, bookingID uint) ([]models.AdditionalCharge, error)
	CreateBatch(ctx context.Context, charges []models.AdditionalCharge) error
	Delete(ctx context.Context, id uint) error
	DeleteByBooking(ctx context.Context, bookingID uint) error
}

type chargeRepository struct {
	db *gorm.DB
}

// NewChargeRepository creates a new additional-charge repository
func NewChargeRepository(db *gorm.DB) ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) FindByID(ctx context.Context, id uint) (*models.AdditionalCharge, error) {
	var charge models.AdditionalCharge
	err := r.db.WithContext(ctx).First(&charge, id).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *chargeRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.AdditionalCharge, error) {
	var charges []models.AdditionalCharge
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC, id ASC").
		Find(&charges).Error
	return charges, err
}

// CreateBatch persists a staged batch in one insert. IDs are assigned by the
// database; callers must re-fetch rather than trust anything client-side.
func (r *chargeRepository) CreateBatch(ctx context.Context, charges []models.AdditionalCharge) error {
	if len(charges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&charges).Error
}

func (r *chargeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.AdditionalCharge{}, id).Error
}

func (r *chargeRepository) DeleteByBooking(ctx context.Context, bookingID uint) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Delete(&models.AdditionalCharge{}).Error
}
