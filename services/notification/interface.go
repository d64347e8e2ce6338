package notification

import (
	"context"

	"go.uber.org/zap"
)

// Notification templates used by the parking core.
const (
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateExitReminder     = "exit_reminder"
	TemplateExitReceipt      = "exit_receipt"
	TemplateDueAccrued       = "due_accrued"
)

// Service delivers user notifications. Delivery is owned by an external
// collaborator (email/SMS/push); the parking core only fires templates and
// never lets a delivery failure abort a state transition.
type Service interface {
	Send(ctx context.Context, userID, template string, data map[string]string) error
}

// LogNotificationService is the default implementation: it records the
// delivery in the service log. Deployments plug a real channel in here.
type LogNotificationService struct {
	Logger *zap.Logger
}

func NewLogNotificationService(logger *zap.Logger) *LogNotificationService {
	return &LogNotificationService{Logger: logger}
}

func (s *LogNotificationService) Send(ctx context.Context, userID, template string, data map[string]string) error {
	s.Logger.Info("notification dispatched",
		zap.String("userId", userID),
		zap.String("template", template),
		zap.Any("data", data))
	return nil
}
