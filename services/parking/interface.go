package parking

import (
	"context"

	"smartpark/models"
)

// CreateBookingRequest is the input for a new reservation.
type CreateBookingRequest struct {
	FloorID  string          `json:"floorId" binding:"required"`
	SpotType models.SpotType `json:"spotType"`
}

// ExitOutcome is the result of the external payment channel reported by the
// kiosk after an exit scan that the wallet could not cover.
type ExitOutcome string

const (
	OutcomePaid ExitOutcome = "paid"
	OutcomeDue  ExitOutcome = "due"
)

// Service is the parking session lifecycle engine: admission control,
// entry/exit scans, fee settlement and wallet operations.
type Service interface {
	// CreateBooking admits a new reservation for the user on a floor.
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.Booking, error)
	// GetBooking resolves a booking by its external identifier, applying lazy
	// hold expiry before returning it.
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	// ListUserBookings returns the user's bookings, newest first.
	ListUserBookings(ctx context.Context, userID string, limit int64) ([]models.Booking, error)
	// CancelBooking cancels the user's own pending booking.
	CancelBooking(ctx context.Context, userID, bookingID string) error
	// ExtendBooking pushes an active booking's expected exit forward one hour.
	ExtendBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error)

	// EntryScan admits a vehicle at the gate from a scanned QR payload.
	EntryScan(ctx context.Context, payload *models.ScanPayload) (*models.EntryResult, error)
	// ExitScan settles an active booking at the gate. When the wallet covers
	// the fee the booking completes immediately; otherwise a payment window
	// opens and the result references the external channel.
	ExitScan(ctx context.Context, payload *models.ScanPayload) (*models.ExitResult, error)
	// CompleteExit closes a pending payment window with the channel outcome.
	// The booking completes either way; non-payment becomes a due.
	CompleteExit(ctx context.Context, bookingID string, outcome ExitOutcome) (*models.ExitResult, error)

	// RechargeWallet credits the user's wallet.
	RechargeWallet(ctx context.Context, userID string, amount float64) (*models.Transaction, error)
	// ClearDues reduces the user's outstanding dues. waived marks an admin
	// write-off rather than a collection.
	ClearDues(ctx context.Context, userID string, amount float64, waived bool) (*models.Transaction, error)

	// ListFloors returns availability snapshots for every floor.
	ListFloors(ctx context.Context) ([]models.FloorAvailability, error)
	// FloorAvailability returns the availability snapshot for one floor.
	FloorAvailability(ctx context.Context, floorID string) (*models.FloorAvailability, error)
	// CreateFloor registers a new parking floor.
	CreateFloor(ctx context.Context, floor *models.Floor) error
	// UpdateFloor changes a floor's name and capacities.
	UpdateFloor(ctx context.Context, floorID string, name string, normalSpots, disabilitySpots int) (*models.Floor, error)
	// SetFloorActive toggles a floor's availability for new bookings.
	SetFloorActive(ctx context.Context, floorID string, active bool) error
}
