package services

import (
	"context"
	"fmt"

	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
)

// VehicleService manages the bike fleet
type VehicleService struct {
	repo        repository.VehicleRepository
	bookingRepo repository.BookingRepository
	auditSvc    *AuditService
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(repo repository.VehicleRepository, bookingRepo repository.BookingRepository, auditSvc *AuditService) *VehicleService {
	return &VehicleService{repo: repo, bookingRepo: bookingRepo, auditSvc: auditSvc}
}

// FindByID loads a vehicle by ID
func (s *VehicleService) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByStore lists all vehicles of a store
func (s *VehicleService) FindByStore(ctx context.Context, storeID uint) ([]models.Vehicle, error) {
	return s.repo.FindByStore(ctx, storeID)
}

// FindAvailableByStore lists vehicles currently rentable at a store
func (s *VehicleService) FindAvailableByStore(ctx context.Context, storeID uint) ([]models.Vehicle, error) {
	return s.repo.FindAvailableByStore(ctx, storeID)
}

// Create registers a new vehicle
func (s *VehicleService) Create(ctx context.Context, vehicle *models.Vehicle, actorID uint) error {
	if vehicle.RegistrationNumber == "" {
		return NewValidationError("registration number is required")
	}
	if vehicle.Model == "" {
		return NewValidationError("vehicle model is required")
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "CREATE", "Vehicle", vehicle.ID,
		fmt.Sprintf("Vehicle %s (%s) added", vehicle.RegistrationNumber, vehicle.Model), "", "")
	return nil
}

// Update saves vehicle changes
func (s *VehicleService) Update(ctx context.Context, vehicle *models.Vehicle, actorID uint) error {
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "Vehicle", vehicle.ID,
		fmt.Sprintf("Vehicle %s updated", vehicle.RegistrationNumber), "", "")
	return nil
}

// SetStatus changes a vehicle's fleet status. A vehicle with an active
// booking can only move between trip-compatible statuses.
func (s *VehicleService) SetStatus(ctx context.Context, id uint, status string, actorID uint) (*models.Vehicle, error) {
	switch status {
	case models.VehicleStatusAvailable, models.VehicleStatusOnTrip,
		models.VehicleStatusMaintenance, models.VehicleStatusRetired:
	default:
		return nil, NewValidationError("unknown vehicle status %q", status)
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == models.VehicleStatusMaintenance || status == models.VehicleStatusRetired {
		active, err := s.bookingRepo.FindActiveByVehicle(ctx, id)
		if err == nil && active != nil {
			return nil, NewConflictError("vehicle %s is on active booking %s", vehicle.RegistrationNumber, active.BookingCode)
		}
	}

	vehicle.Status = status
	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "SET_STATUS", "Vehicle", vehicle.ID,
		fmt.Sprintf("Vehicle %s status set to %s", vehicle.RegistrationNumber, status), "", "")
	return vehicle, nil
}
