package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/torqride/rentals-api/internal/models"
)

func TestBookingFSMAccept(t *testing.T) {
	ctx := context.Background()

	booking := &models.Booking{Status: models.BookingStatusConfirmed}
	err := NewBookingFSM(booking).Accept(ctx)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, booking.Status)

	// accept is only legal from confirmed
	for _, status := range []string{
		models.BookingStatusAccepted,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	} {
		booking := &models.Booking{Status: status}
		err := NewBookingFSM(booking).Accept(ctx)
		assert.Error(t, err)
		assert.Equal(t, status, booking.Status)
	}
}

func TestBookingFSMCompleteAndCancelFromAccepted(t *testing.T) {
	ctx := context.Background()

	booking := &models.Booking{Status: models.BookingStatusAccepted}
	assert.NoError(t, NewBookingFSM(booking).Complete(ctx))
	assert.Equal(t, models.BookingStatusCompleted, booking.Status)

	booking = &models.Booking{Status: models.BookingStatusAccepted}
	assert.NoError(t, NewBookingFSM(booking).Cancel(ctx))
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
}

func TestBookingFSMTerminalStates(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{models.BookingStatusCompleted, models.BookingStatusCancelled} {
		booking := &models.Booking{Status: status}
		machine := NewBookingFSM(booking)

		assert.Error(t, machine.Accept(ctx))
		assert.Error(t, machine.Cancel(ctx))
		assert.Error(t, machine.Complete(ctx))
		assert.Error(t, machine.Extend(ctx))
		assert.Equal(t, status, booking.Status, "terminal status must not change")
	}
}

func TestBookingFSMConfirmedCannotCompleteDirectly(t *testing.T) {
	ctx := context.Background()

	booking := &models.Booking{Status: models.BookingStatusConfirmed}
	machine := NewBookingFSM(booking)

	assert.Error(t, machine.Complete(ctx))
	assert.Error(t, machine.Cancel(ctx))
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

func TestBookingFSMTripSubStates(t *testing.T) {
	ctx := context.Background()

	// A booking mid-trip (start_trip, trip_extend) can still be completed
	// or cancelled by an operator.
	for _, status := range []string{
		models.BookingStatusStartTrip,
		models.BookingStatusTripExtend,
		models.BookingStatusEndTrip,
	} {
		booking := &models.Booking{Status: status}
		assert.NoError(t, NewBookingFSM(booking).Complete(ctx), "complete from %s", status)
		assert.Equal(t, models.BookingStatusCompleted, booking.Status)
	}

	booking := &models.Booking{Status: models.BookingStatusAccepted}
	assert.NoError(t, NewBookingFSM(booking).Extend(ctx))
	assert.Equal(t, models.BookingStatusTripExtend, booking.Status)
}
