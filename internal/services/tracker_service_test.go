package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/torqride/rentals-api/internal/integrations/tracker"
	"github.com/torqride/rentals-api/internal/models"
)

func trackedVehicleRepo(engineOn bool) *mockVehicleRepo {
	vehicle := &models.Vehicle{
		ID:                 3,
		RegistrationNumber: "KA01AB1234",
		DeviceID:           "dev-3",
		EngineOn:           engineOn,
		Status:             models.VehicleStatusOnTrip,
	}
	repo := &mockVehicleRepo{}
	repo.mockFindByID = func(ctx context.Context, id uint) (*models.Vehicle, error) {
		return vehicle, nil
	}
	repo.mockUpdate = func(ctx context.Context, v *models.Vehicle) error {
		vehicle = v
		return nil
	}
	return repo
}

func TestTrackerService_SetEngine_ConfirmedByRelay(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices/dev-3/engine", r.URL.Path)
		json.NewEncoder(w).Encode(tracker.EngineState{DeviceID: "dev-3", EngineOn: false})
	}))
	defer relay.Close()

	repo := trackedVehicleRepo(true)
	service := NewTrackerService(tracker.NewClient(relay.URL, time.Second), repo, NewAuditService(nil))

	result, err := service.SetEngine(context.Background(), 3, false, 1)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result.Outcome)
	assert.False(t, result.EngineOn)

	vehicle, _ := repo.FindByID(context.Background(), 3)
	assert.False(t, vehicle.EngineOn)
}

func TestTrackerService_SetEngine_RolledBackOnRelayError(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer relay.Close()

	repo := trackedVehicleRepo(true)
	service := NewTrackerService(tracker.NewClient(relay.URL, time.Second), repo, NewAuditService(nil))

	result, err := service.SetEngine(context.Background(), 3, false, 1)

	var transient *TransientError
	require.ErrorAs(t, err, &transient)
	require.NotNil(t, result)
	assert.Equal(t, "rolled_back", result.Outcome)
	assert.True(t, result.EngineOn, "stored state must be restored")

	vehicle, _ := repo.FindByID(context.Background(), 3)
	assert.True(t, vehicle.EngineOn)
}

func TestTrackerService_SetEngine_RolledBackWhenRelayDisagrees(t *testing.T) {
	// Relay answers 200 but reports the opposite state: device unreachable
	// on its side
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tracker.EngineState{DeviceID: "dev-3", EngineOn: true})
	}))
	defer relay.Close()

	repo := trackedVehicleRepo(true)
	service := NewTrackerService(tracker.NewClient(relay.URL, time.Second), repo, NewAuditService(nil))

	result, err := service.SetEngine(context.Background(), 3, false, 1)
	require.NoError(t, err)
	assert.Equal(t, "rolled_back", result.Outcome)
	assert.True(t, result.EngineOn)
}

func TestTrackerService_SetEngine_RequiresDevice(t *testing.T) {
	repo := &mockVehicleRepo{}
	repo.mockFindByID = func(ctx context.Context, id uint) (*models.Vehicle, error) {
		return &models.Vehicle{ID: id, RegistrationNumber: "KA01AB1234"}, nil
	}
	service := NewTrackerService(tracker.NewClient("http://localhost:1", time.Second), repo, NewAuditService(nil))

	_, err := service.SetEngine(context.Background(), 3, true, 1)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestTrackerService_Locate_ReturnsPosition(t *testing.T) {
	reported := time.Now().UTC().Truncate(time.Second)
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices/dev-3/position", r.URL.Path)
		json.NewEncoder(w).Encode(tracker.Position{
			DeviceID: "dev-3", Latitude: 12.97, Longitude: 77.59, SpeedKMH: 24, ReportedAt: reported,
		})
	}))
	defer relay.Close()

	service := NewTrackerService(tracker.NewClient(relay.URL, time.Second), trackedVehicleRepo(true), NewAuditService(nil))

	position, err := service.Locate(context.Background(), 3)
	require.NoError(t, err)
	assert.InDelta(t, 12.97, position.Latitude, 0.001)
	assert.InDelta(t, 77.59, position.Longitude, 0.001)
}

func TestTrackerService_Locate_UnknownDevice(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer relay.Close()

	service := NewTrackerService(tracker.NewClient(relay.URL, time.Second), trackedVehicleRepo(true), NewAuditService(nil))

	_, err := service.Locate(context.Background(), 3)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}
