package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/torqride/rentals-api/internal/models"
)

// BookingFSM wraps a booking with its status state machine. Completed and
// cancelled are terminal; the operational sub-states (start_trip, end_trip,
// trip_extend) collapse onto accepted for transition purposes, since they
// describe where the vehicle is, not a different lifecycle stage.
type BookingFSM struct {
	booking *models.Booking
	fsm     *fsm.FSM
}

// NewBookingFSM creates a new booking state machine seeded from the
// booking's current status
func NewBookingFSM(booking *models.Booking) *BookingFSM {
	bfsm := &BookingFSM{
		booking: booking,
	}

	acceptedLike := []string{
		models.BookingStatusAccepted,
		models.BookingStatusStartTrip,
		models.BookingStatusEndTrip,
		models.BookingStatusTripExtend,
	}

	bfsm.fsm = fsm.NewFSM(
		booking.Status,
		fsm.Events{
			// confirmed → accepted
			{Name: "accept", Src: []string{models.BookingStatusConfirmed}, Dst: models.BookingStatusAccepted},

			// accepted (incl. trip sub-states) → cancelled [terminal]
			{Name: "cancel", Src: acceptedLike, Dst: models.BookingStatusCancelled},

			// accepted (incl. trip sub-states) → completed [terminal]
			{Name: "complete", Src: acceptedLike, Dst: models.BookingStatusCompleted},

			// accepted → trip_extend (backend-driven sub-state after an extension)
			{Name: "extend", Src: acceptedLike, Dst: models.BookingStatusTripExtend},
		},
		fsm.Callbacks{},
	)

	return bfsm
}

// Accept transitions the booking to accepted
func (b *BookingFSM) Accept(ctx context.Context) error {
	if !b.booking.MayAccept() {
		return fmt.Errorf("booking cannot be accepted in current status: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "accept"); err != nil {
		return fmt.Errorf("failed to accept booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Cancel transitions the booking to cancelled
func (b *BookingFSM) Cancel(ctx context.Context) error {
	if !b.booking.MayCancel() {
		return fmt.Errorf("booking cannot be cancelled in current status: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Complete transitions the booking to completed. Odometer validation is the
// service's responsibility; the FSM only enforces the status graph.
func (b *BookingFSM) Complete(ctx context.Context) error {
	if !b.booking.MayComplete() {
		return fmt.Errorf("booking cannot be completed in current status: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Extend moves the booking into the trip_extend operational sub-state
func (b *BookingFSM) Extend(ctx context.Context) error {
	if !b.booking.OnTrip() {
		return fmt.Errorf("booking cannot be extended in current status: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "extend"); err != nil {
		return fmt.Errorf("failed to extend booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Current returns the current state
func (b *BookingFSM) Current() string {
	return b.fsm.Current()
}

// Can checks if a transition is possible
func (b *BookingFSM) Can(event string) bool {
	return b.fsm.Can(event)
}
