package parking

import (
	"context"
	"strings"

	bookingRepo "smartpark/database/repository/booking"
	floorRepo "smartpark/database/repository/floor"
	settlementRepo "smartpark/database/repository/settlement"
	txnRepo "smartpark/database/repository/transaction"
	userRepo "smartpark/database/repository/user"
	"smartpark/models"
	"smartpark/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReminderScheduler schedules the exit-time reminder keyed by booking id.
// Scheduling is best effort; failures are logged and never abort a transition.
type ReminderScheduler interface {
	Schedule(ctx context.Context, booking *models.Booking) error
	Cancel(ctx context.Context, bookingID string) error
}

// DefaultParkingService is the production implementation of Service.
type DefaultParkingService struct {
	Bookings  bookingRepo.Repository
	Users     userRepo.Repository
	Floors    floorRepo.Repository
	Ledger    settlementRepo.Repository
	Txns      txnRepo.Repository
	Notifier  notification.Service
	Reminders ReminderScheduler
	Locker    FloorLocker
	Window    PaymentWindow
	Logger    *zap.Logger
}

// newBookingCode produces the human-readable external identifier embedded in
// QR payloads, e.g. "SP-3FA85F64".
func newBookingCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "SP-" + strings.ToUpper(hex[:8])
}

// notify sends a push through the notification collaborator. Delivery is fire
// and forget: a failure is logged and swallowed, the triggering state change
// has already committed.
func (s *DefaultParkingService) notify(ctx context.Context, userID, template string, data map[string]string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(ctx, userID, template, data); err != nil {
		s.Logger.Warn("notification delivery failed",
			zap.String("userId", userID),
			zap.String("template", template),
			zap.Error(err))
	}
}
