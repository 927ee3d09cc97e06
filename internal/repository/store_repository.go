package repository

import (
	"context"

	"github.com/torqride/rentals-api/internal/models"
	"gorm.io/gorm"
)

// StoreRepository defines the interface for store data access
type StoreRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Store, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.Store, error)
	Create(ctx context.Context, store *models.Store) error
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uint) error
}

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Preload("Managers").First(&store, id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.Store, error) {
	var stores []models.Store
	db := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Find(&stores).Error
	return stores, err
}

func (r *storeRepository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepository) Update(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *storeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Store{}, id).Error
}

// VehicleRepository defines the interface for vehicle data access
type VehicleRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Vehicle, error)
	FindByStore(ctx context.Context, storeID uint) ([]models.Vehicle, error)
	FindAvailableByStore(ctx context.Context, storeID uint) ([]models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uint) error
}

type vehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.WithContext(ctx).Preload("PricingPlan").Preload("Store").First(&vehicle, id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByStore(ctx context.Context, storeID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Preload("PricingPlan").
		Where("store_id = ?", storeID).
		Order("registration_number ASC").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) FindAvailableByStore(ctx context.Context, storeID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Preload("PricingPlan").
		Where("store_id = ? AND status = ?", storeID, models.VehicleStatusAvailable).
		Order("registration_number ASC").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *vehicleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vehicle{}, id).Error
}
