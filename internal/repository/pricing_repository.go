package repository

import (
	"context"
	"time"

	"github.com/torqride/rentals-api/internal/models"
	"gorm.io/gorm"
)

// PricingRepository defines the interface for pricing master data access
type PricingRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PricingPlan, error)
	FindEffectiveByModel(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.PricingPlan, error)
	Create(ctx context.Context, plan *models.PricingPlan) error
	Update(ctx context.Context, plan *models.PricingPlan) error
	Delete(ctx context.Context, id uint) error
}

type pricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository creates a new pricing repository
func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) FindByID(ctx context.Context, id uint) (*models.PricingPlan, error) {
	var plan models.PricingPlan
	err := r.db.WithContext(ctx).First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *pricingRepository) FindEffectiveByModel(ctx context.Context, model string, at time.Time) (*models.PricingPlan, error) {
	var plan models.PricingPlan
	err := r.db.WithContext(ctx).
		Where("model = ? AND active = ?", model, true).
		Where("effective_to IS NULL OR effective_to >= ?", at).
		Order("created_at DESC").
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *pricingRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.PricingPlan, error) {
	var plans []models.PricingPlan
	db := r.db.WithContext(ctx).Order("model ASC, created_at DESC")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Find(&plans).Error
	return plans, err
}

func (r *pricingRepository) Create(ctx context.Context, plan *models.PricingPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *pricingRepository) Update(ctx context.Context, plan *models.PricingPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *pricingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PricingPlan{}, id).Error
}
