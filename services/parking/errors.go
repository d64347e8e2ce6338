package parking

import (
	"fmt"

	"smartpark/models"
)

// ValidationError reports bad or missing input. Always user-correctable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an absent booking, floor or user.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidTransitionError reports a state machine rule violation. Current
// carries the booking's actual status so the caller can reconcile.
type InvalidTransitionError struct {
	BookingID string
	Current   models.BookingStatus
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking %s in status %s", e.Attempted, e.BookingID, e.Current)
}

// CapacityExceededError reports a floor with no remaining capacity.
type CapacityExceededError struct {
	FloorID string
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("floor %s has no available spots", e.FloorID)
}

// DuplicateActiveBookingError reports a user who already holds an open booking.
type DuplicateActiveBookingError struct {
	UserID string
}

func (e *DuplicateActiveBookingError) Error() string {
	return fmt.Sprintf("user %s already has a pending or active booking", e.UserID)
}

// OutstandingDuesError reports a user blocked from booking by unpaid dues.
type OutstandingDuesError struct {
	UserID string
	Amount float64
}

func (e *OutstandingDuesError) Error() string {
	return fmt.Sprintf("user %s has outstanding dues of %.2f", e.UserID, e.Amount)
}
