// File: services/parking/registry.go
package parking

import (
	"context"
	"errors"
	"time"

	"smartpark/config"
	bookingRepo "smartpark/database/repository/booking"
	floorRepo "smartpark/database/repository/floor"
	userRepo "smartpark/database/repository/user"
	"smartpark/models"
	"smartpark/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrFloorBusy signals transient contention on a floor's admission lock.
var ErrFloorBusy = errors.New("floor admission busy, retry")

func holdDuration() time.Duration {
	minutes := config.AppConfig.ReservationHoldMinutes
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

// CreateBooking admits a new reservation. Admission rejects users with an
// open booking or outstanding dues, inactive floors, and exhausted capacity.
// The capacity count always runs against normal spots regardless of the
// requested spot type; disability capacity is tracked for display only.
func (s *DefaultParkingService) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.Booking, error) {
	spotType := req.SpotType
	if spotType == "" {
		spotType = models.SpotNormal
	}
	if !spotType.IsValid() {
		return nil, &ValidationError{Field: "spotType", Reason: "must be normal or disability"}
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "user", ID: userID}
		}
		return nil, err
	}
	if user.DueAmount > 0 {
		return nil, &OutstandingDuesError{UserID: userID, Amount: user.DueAmount}
	}

	if open, err := s.Bookings.FindOpenByUser(ctx, userID); err == nil {
		// A lapsed pending hold does not block a new reservation.
		if !s.lazyExpire(ctx, open) {
			return nil, &DuplicateActiveBookingError{UserID: userID}
		}
	} else if !errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, err
	}

	floor, err := s.Floors.GetByID(ctx, req.FloorID)
	if err != nil {
		if errors.Is(err, floorRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "floor", ID: req.FloorID}
		}
		return nil, err
	}
	if !floor.IsActive {
		return nil, &ValidationError{Field: "floorId", Reason: "floor is not open for booking"}
	}

	// Serialize the count-then-insert against concurrent requests for the
	// same floor's last spot.
	release, ok := s.Locker.Lock(ctx, floor.ID)
	if !ok {
		return nil, ErrFloorBusy
	}
	defer release()

	count, err := s.Bookings.CountOpenOnFloor(ctx, floor.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(floor.NormalSpots) {
		return nil, &CapacityExceededError{FloorID: floor.ID}
	}

	now := time.Now()
	booking := &models.Booking{
		BookingID:     newBookingCode(),
		UserID:        userID,
		FloorID:       floor.ID,
		SpotType:      spotType,
		SpotLabel:     models.DefaultSpotLabel,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: models.MethodNone,
		CreatedAt:     now,
		ExpiresAt:     now.Add(holdDuration()),
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrOpenBookingExists) {
			return nil, &DuplicateActiveBookingError{UserID: userID}
		}
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", booking.BookingID),
		zap.String("userId", userID),
		zap.String("floorId", floor.ID))

	s.notify(ctx, userID, notification.TemplateBookingConfirmed, map[string]string{
		"bookingId": booking.BookingID,
		"floor":     floor.Name,
		"expiresAt": booking.ExpiresAt.Format(time.RFC3339),
	})

	return booking, nil
}

// lazyExpire marks a pending booking expired if its hold window has lapsed.
// Returns true when the booking is now expired.
func (s *DefaultParkingService) lazyExpire(ctx context.Context, booking *models.Booking) bool {
	if !booking.HoldExpired(time.Now()) {
		return false
	}
	if err := s.Bookings.MarkExpired(ctx, booking.BookingID); err != nil && !errors.Is(err, bookingRepo.ErrStatusConflict) {
		s.Logger.Warn("failed to expire stale booking", zap.String("bookingId", booking.BookingID), zap.Error(err))
		return false
	}
	booking.Status = models.StatusExpired
	return true
}

// resolveBooking locates a booking from a scanned identifier: by external
// booking id first, then by storage primary key shape.
func (s *DefaultParkingService) resolveBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByBookingID(ctx, id)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, err
	}
	booking, err = s.Bookings.GetByObjectID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, err
	}
	return booking, nil
}

// GetBooking resolves a booking by identifier, applying lazy hold expiry.
func (s *DefaultParkingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.lazyExpire(ctx, booking)
	return booking, nil
}

// ListUserBookings returns the user's bookings, newest first.
func (s *DefaultParkingService) ListUserBookings(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID, limit)
}

// QRPayload builds the canonical scan payload string for a booking.
func QRPayload(bookingID string) (string, error) {
	p := &models.ScanPayload{Type: models.ScanTypeBooking, BookingID: bookingID}
	return p.Encode()
}

// ListFloors returns availability snapshots for every floor.
func (s *DefaultParkingService) ListFloors(ctx context.Context) ([]models.FloorAvailability, error) {
	floors, err := s.Floors.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.FloorAvailability, 0, len(floors))
	for i := range floors {
		snap, err := s.availabilityFor(ctx, &floors[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, nil
}

// FloorAvailability returns the availability snapshot for one floor.
func (s *DefaultParkingService) FloorAvailability(ctx context.Context, floorID string) (*models.FloorAvailability, error) {
	floor, err := s.Floors.GetByID(ctx, floorID)
	if err != nil {
		if errors.Is(err, floorRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "floor", ID: floorID}
		}
		return nil, err
	}
	return s.availabilityFor(ctx, floor)
}

func (s *DefaultParkingService) availabilityFor(ctx context.Context, floor *models.Floor) (*models.FloorAvailability, error) {
	open, err := s.Bookings.CountOpenOnFloor(ctx, floor.ID)
	if err != nil {
		return nil, err
	}
	openDisability, err := s.Bookings.CountOpenOnFloorBySpotType(ctx, floor.ID, models.SpotDisability)
	if err != nil {
		return nil, err
	}

	availableNormal := floor.NormalSpots - int(open)
	if availableNormal < 0 {
		availableNormal = 0
	}
	availableDisability := floor.DisabilitySpots - int(openDisability)
	if availableDisability < 0 {
		availableDisability = 0
	}

	return &models.FloorAvailability{
		FloorID:                  floor.ID,
		Name:                     floor.Name,
		NormalSpots:              floor.NormalSpots,
		DisabilitySpots:          floor.DisabilitySpots,
		AvailableNormalSpots:     availableNormal,
		AvailableDisabilitySpots: availableDisability,
		IsActive:                 floor.IsActive,
	}, nil
}

// CreateFloor registers a new parking floor.
func (s *DefaultParkingService) CreateFloor(ctx context.Context, floor *models.Floor) error {
	if floor.NormalSpots <= 0 {
		return &ValidationError{Field: "normalSpots", Reason: "must be positive"}
	}
	if floor.DisabilitySpots < 0 {
		return &ValidationError{Field: "disabilitySpots", Reason: "must not be negative"}
	}
	if floor.ID == "" {
		floor.ID = uuid.New().String()
	}
	return s.Floors.Create(ctx, floor)
}

// UpdateFloor changes a floor's name and capacities. Shrinking capacity never
// evicts open bookings; the floor just stops admitting until they drain.
func (s *DefaultParkingService) UpdateFloor(ctx context.Context, floorID string, name string, normalSpots, disabilitySpots int) (*models.Floor, error) {
	if normalSpots <= 0 {
		return nil, &ValidationError{Field: "normalSpots", Reason: "must be positive"}
	}
	if disabilitySpots < 0 {
		return nil, &ValidationError{Field: "disabilitySpots", Reason: "must not be negative"}
	}

	floor, err := s.Floors.GetByID(ctx, floorID)
	if err != nil {
		if errors.Is(err, floorRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "floor", ID: floorID}
		}
		return nil, err
	}

	if name != "" {
		floor.Name = name
	}
	floor.NormalSpots = normalSpots
	floor.DisabilitySpots = disabilitySpots

	if err := s.Floors.Update(ctx, floor); err != nil {
		return nil, err
	}
	return floor, nil
}

// SetFloorActive toggles a floor's availability for new bookings.
func (s *DefaultParkingService) SetFloorActive(ctx context.Context, floorID string, active bool) error {
	if err := s.Floors.SetActive(ctx, floorID, active); err != nil {
		if errors.Is(err, floorRepo.ErrNotFound) {
			return &NotFoundError{Resource: "floor", ID: floorID}
		}
		return err
	}
	return nil
}
