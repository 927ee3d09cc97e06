package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/torqride/rentals-api/internal/integrations/tracker"
	"github.com/torqride/rentals-api/internal/repository"
)

// TrackerService exposes vehicle tracking to the dashboard. The engine
// toggle is optimistic two-phase: the desired state is recorded as pending,
// the relay is asked to switch, and the stored state is either confirmed or
// rolled back from the relay's answer. The dashboard therefore never shows
// a cutoff state the relay did not acknowledge for longer than one call.
type TrackerService struct {
	client      *tracker.Client
	vehicleRepo repository.VehicleRepository
	auditSvc    *AuditService
}

// NewTrackerService creates a new tracker service
func NewTrackerService(client *tracker.Client, vehicleRepo repository.VehicleRepository, auditSvc *AuditService) *TrackerService {
	return &TrackerService{client: client, vehicleRepo: vehicleRepo, auditSvc: auditSvc}
}

// EngineToggleResult reports what the relay confirmed
type EngineToggleResult struct {
	VehicleID uint   `json:"vehicle_id"`
	DeviceID  string `json:"device_id"`
	Requested bool   `json:"requested"`
	EngineOn  bool   `json:"engine_on"`
	Outcome   string `json:"outcome"` // confirmed | rolled_back
}

// Locate returns the last reported position of a vehicle's tracker
func (s *TrackerService) Locate(ctx context.Context, vehicleID uint) (*tracker.Position, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.HasTracker() {
		return nil, NewValidationError("vehicle %s has no tracking device", vehicle.RegistrationNumber)
	}
	if !s.client.Enabled() {
		return nil, &TransientError{Reason: "tracker relay is not configured"}
	}

	position, err := s.client.Locate(ctx, vehicle.DeviceID)
	if err != nil {
		if errors.Is(err, tracker.ErrDeviceNotFound) {
			return nil, NewValidationError("device %s is not registered with the relay", vehicle.DeviceID)
		}
		return nil, &TransientError{Reason: "tracker relay request failed", Err: err}
	}
	return position, nil
}

// SetEngine toggles the ignition cutoff of a vehicle's tracker
func (s *TrackerService) SetEngine(ctx context.Context, vehicleID uint, on bool, actorID uint) (*EngineToggleResult, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.HasTracker() {
		return nil, NewValidationError("vehicle %s has no tracking device", vehicle.RegistrationNumber)
	}
	if !s.client.Enabled() {
		return nil, &TransientError{Reason: "tracker relay is not configured"}
	}

	previous := vehicle.EngineOn

	// Phase one: record the desired state before asking the relay, so a
	// concurrent read shows where the toggle is heading
	vehicle.EngineOn = on
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to record pending engine state: %w", err)
	}

	result := &EngineToggleResult{
		VehicleID: vehicle.ID,
		DeviceID:  vehicle.DeviceID,
		Requested: on,
	}

	// Phase two: the relay's answer decides whether the optimistic write
	// stands or is rolled back
	state, err := s.client.SetEngine(ctx, vehicle.DeviceID, on)
	if err != nil || state.EngineOn != on {
		vehicle.EngineOn = previous
		if rollbackErr := s.vehicleRepo.Update(ctx, vehicle); rollbackErr != nil {
			return nil, fmt.Errorf("engine toggle failed and rollback failed: %w", rollbackErr)
		}
		result.EngineOn = previous
		result.Outcome = "rolled_back"
		if err != nil {
			return result, &TransientError{Reason: "relay did not accept the engine command", Err: err}
		}
		return result, nil
	}

	result.EngineOn = state.EngineOn
	result.Outcome = "confirmed"

	action := "ENGINE_OFF"
	if on {
		action = "ENGINE_ON"
	}
	s.auditSvc.Log(ctx, actorID, action, "Vehicle", vehicle.ID,
		fmt.Sprintf("Engine cutoff toggled for %s (device %s)", vehicle.RegistrationNumber, vehicle.DeviceID), "", "")

	return result, nil
}
