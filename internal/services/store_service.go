package services

import (
	"context"
	"fmt"

	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

// StoreService manages rental store locations
type StoreService struct {
	repo        repository.StoreRepository
	vehicleRepo repository.VehicleRepository
	auditSvc    *AuditService
}

// NewStoreService creates a new store service
func NewStoreService(repo repository.StoreRepository, vehicleRepo repository.VehicleRepository, auditSvc *AuditService) *StoreService {
	return &StoreService{repo: repo, vehicleRepo: vehicleRepo, auditSvc: auditSvc}
}

// FindByID loads a store by ID
func (s *StoreService) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	return s.repo.FindByID(ctx, id)
}

// FindAll lists stores, optionally active only
func (s *StoreService) FindAll(ctx context.Context, activeOnly bool) ([]models.Store, error) {
	return s.repo.FindAll(ctx, activeOnly)
}

// Create registers a new store
func (s *StoreService) Create(ctx context.Context, store *models.Store, actorID uint) error {
	if store.Name == "" {
		return NewValidationError("store name is required")
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "CREATE", "Store", store.ID,
		fmt.Sprintf("Store %s created", store.Name), "", "")
	return nil
}

// Update saves store changes
func (s *StoreService) Update(ctx context.Context, store *models.Store, actorID uint) error {
	if err := s.repo.Update(ctx, store); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Store", store.ID,
		fmt.Sprintf("Store %s updated", store.Name), "", "")
	return nil
}

// Deactivate marks a store inactive. Stores with vehicles still on trip
// cannot be deactivated.
func (s *StoreService) Deactivate(ctx context.Context, id uint, actorID uint) error {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	vehicles, err := s.vehicleRepo.FindByStore(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check store vehicles: %w", err)
	}
	for _, v := range vehicles {
		if v.Status == models.VehicleStatusOnTrip {
			return NewConflictError("store %s has vehicles on trip and cannot be deactivated", store.Name)
		}
	}

	store.Active = false
	if err := s.repo.Update(ctx, store); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DEACTIVATE", "Store", store.ID,
		fmt.Sprintf("Store %s deactivated", store.Name), "", "")
	return nil
}
