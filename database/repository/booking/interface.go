package bookingRepo

import (
	"context"
	"errors"
	"time"

	"smartpark/models"
)

// Sentinel errors surfaced by the repository so the service layer can map
// storage outcomes onto the domain error taxonomy.
var (
	// ErrNotFound means no booking matched the identifier.
	ErrNotFound = errors.New("booking not found")
	// ErrStatusConflict means a compare-and-swap transition matched no
	// document: the booking is no longer in the expected source status.
	ErrStatusConflict = errors.New("booking status changed concurrently")
	// ErrOpenBookingExists means the unique open-booking index rejected a
	// second pending/active booking for the same user.
	ErrOpenBookingExists = errors.New("user already has an open booking")
)

// Repository defines data access for bookings.
type Repository interface {
	// Create inserts a new booking record. Returns ErrOpenBookingExists when
	// the user already holds a pending or active booking.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByBookingID retrieves a booking by its external identifier.
	GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	// GetByObjectID retrieves a booking by its storage primary key hex.
	GetByObjectID(ctx context.Context, hexID string) (*models.Booking, error)
	// FindOpenByUser returns the user's pending or active booking, if any.
	FindOpenByUser(ctx context.Context, userID string) (*models.Booking, error)
	// ListByUser returns the user's bookings, newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error)
	// CountOpenOnFloor counts pending and active bookings against a floor.
	CountOpenOnFloor(ctx context.Context, floorID string) (int64, error)
	// CountOpenOnFloorBySpotType counts open bookings of one spot type.
	CountOpenOnFloorBySpotType(ctx context.Context, floorID string, spotType models.SpotType) (int64, error)

	// MarkActive transitions pending -> active, setting entry and expected
	// exit times. Returns ErrStatusConflict if the booking is not pending.
	MarkActive(ctx context.Context, bookingID string, entryTime, expectedExit time.Time) error
	// MarkExpired transitions pending -> expired.
	MarkExpired(ctx context.Context, bookingID string) error
	// MarkCancelled transitions pending -> cancelled.
	MarkCancelled(ctx context.Context, bookingID string) error
	// SetExpectedExit updates the expected exit time of an active booking.
	SetExpectedExit(ctx context.Context, bookingID string, expectedExit time.Time) error

	// ExpireStale marks all pending bookings whose hold window has passed.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	// ArchiveCompletedBefore flags completed bookings older than cutoff.
	ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// PurgeArchivedBefore deletes archived bookings older than cutoff.
	PurgeArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
