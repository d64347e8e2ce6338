// File: services/parking/lifecycle.go
package parking

import (
	"context"
	"errors"
	"time"

	bookingRepo "smartpark/database/repository/booking"
	"smartpark/models"

	"go.uber.org/zap"
)

// ExtensionStep is how far one extension pushes the expected exit time.
const ExtensionStep = time.Hour

// EntryScan admits a vehicle at the gate. A pending booking scanned before
// its hold lapses goes active; a late scan expires it instead.
func (s *DefaultParkingService) EntryScan(ctx context.Context, payload *models.ScanPayload) (*models.EntryResult, error) {
	if payload.Type != models.ScanTypeBooking {
		return nil, &ValidationError{Field: "payload", Reason: "entry gate expects a booking pass"}
	}

	booking, err := s.resolveBooking(ctx, payload.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.StatusPending {
		return nil, &InvalidTransitionError{BookingID: booking.BookingID, Current: booking.Status, Attempted: "enter"}
	}
	if s.lazyExpire(ctx, booking) {
		return nil, &InvalidTransitionError{BookingID: booking.BookingID, Current: models.StatusExpired, Attempted: "enter"}
	}

	now := time.Now()
	expectedExit := now.Add(BaseHours * time.Hour)
	if err := s.Bookings.MarkActive(ctx, booking.BookingID, now, expectedExit); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, s.transitionConflict(ctx, booking.BookingID, "enter")
		}
		return nil, err
	}
	booking.Status = models.StatusActive
	booking.EntryTime = &now
	booking.ExpectedExitTime = &expectedExit

	s.scheduleReminder(ctx, booking)

	s.Logger.Info("vehicle entered",
		zap.String("bookingId", booking.BookingID),
		zap.Time("expectedExit", expectedExit))

	return &models.EntryResult{
		BookingID:        booking.BookingID,
		Status:           string(models.StatusActive),
		EntryTime:        now,
		ExpectedExitTime: expectedExit,
	}, nil
}

// CancelBooking cancels the user's own pending booking. No monetary effect;
// no charge was ever incurred before entry.
func (s *DefaultParkingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}
	if booking.Status != models.StatusPending {
		return &InvalidTransitionError{BookingID: booking.BookingID, Current: booking.Status, Attempted: "cancel"}
	}
	if s.lazyExpire(ctx, booking) {
		return &InvalidTransitionError{BookingID: booking.BookingID, Current: models.StatusExpired, Attempted: "cancel"}
	}

	if err := s.Bookings.MarkCancelled(ctx, booking.BookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return s.transitionConflict(ctx, booking.BookingID, "cancel")
		}
		return err
	}

	s.Logger.Info("booking cancelled", zap.String("bookingId", booking.BookingID), zap.String("userId", userID))
	return nil
}

// ExtendBooking pushes an active booking's expected exit forward by exactly
// one hour. Extensions are unlimited and carry no fee; billing happens only
// at the actual exit.
func (s *DefaultParkingService) ExtendBooking(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	booking, err := s.resolveBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, &NotFoundError{Resource: "booking", ID: bookingID}
	}
	if booking.Status != models.StatusActive || booking.ExpectedExitTime == nil {
		return nil, &InvalidTransitionError{BookingID: booking.BookingID, Current: booking.Status, Attempted: "extend"}
	}

	newExpected := booking.ExpectedExitTime.Add(ExtensionStep)
	if err := s.Bookings.SetExpectedExit(ctx, booking.BookingID, newExpected); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			return nil, s.transitionConflict(ctx, booking.BookingID, "extend")
		}
		return nil, err
	}
	booking.ExpectedExitTime = &newExpected

	// Move the reminder along with the new target.
	s.scheduleReminder(ctx, booking)

	s.Logger.Info("booking extended",
		zap.String("bookingId", booking.BookingID),
		zap.Time("expectedExit", newExpected))

	return booking, nil
}

// transitionConflict re-reads the booking after a compare-and-swap miss and
// reports the actual current status.
func (s *DefaultParkingService) transitionConflict(ctx context.Context, bookingID, attempted string) error {
	current, err := s.Bookings.GetByBookingID(ctx, bookingID)
	if err != nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}
	return &InvalidTransitionError{BookingID: bookingID, Current: current.Status, Attempted: attempted}
}

// scheduleReminder enqueues or moves the exit-time reminder. Best effort: a
// scheduling failure never aborts the transition that triggered it.
func (s *DefaultParkingService) scheduleReminder(ctx context.Context, booking *models.Booking) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.Schedule(ctx, booking); err != nil {
		s.Logger.Warn("failed to schedule exit reminder",
			zap.String("bookingId", booking.BookingID),
			zap.Error(err))
	}
}

// cancelReminder drops a scheduled reminder after an early exit.
func (s *DefaultParkingService) cancelReminder(ctx context.Context, bookingID string) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.Cancel(ctx, bookingID); err != nil {
		s.Logger.Debug("failed to cancel exit reminder",
			zap.String("bookingId", bookingID),
			zap.Error(err))
	}
}
