package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smartpark/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

// ReminderLead is how long before the expected exit the reminder fires.
const ReminderLead = 10 * time.Minute

func reminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

// NewReminderTask builds the asynq task for a booking's exit reminder. The
// task id is keyed by booking so re-scheduling replaces rather than
// duplicates, and the queue survives process restarts.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(reminderTaskID(payload.BookingID)),
	}
	return task, opts, nil
}

// Scheduler enqueues and cancels exit reminders on the asynq queue.
type Scheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	logger    *zap.Logger
}

func NewScheduler(redisOpt asynq.RedisClientOpt, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		logger:    logger,
	}
}

// Schedule enqueues the booking's exit reminder for ten minutes before its
// expected exit, replacing any previously scheduled one.
func (s *Scheduler) Schedule(ctx context.Context, booking *models.Booking) error {
	if booking.ExpectedExitTime == nil {
		return fmt.Errorf("booking %s has no expected exit time", booking.BookingID)
	}
	fireAt := booking.ExpectedExitTime.Add(-ReminderLead)

	// Replace an earlier schedule; the task id is stable per booking.
	if err := s.Cancel(ctx, booking.BookingID); err != nil {
		s.logger.Debug("no prior reminder to replace", zap.String("bookingId", booking.BookingID), zap.Error(err))
	}

	payload := models.ReminderPayload{
		BookingID: booking.BookingID,
		UserID:    booking.UserID,
		Title:     "Parking time ending soon",
		Body:      "Your parking session ends in 10 minutes. Extend your booking or head to the exit.",
		FireDate:  fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// Cancel removes the booking's scheduled reminder, if one exists.
func (s *Scheduler) Cancel(ctx context.Context, bookingID string) error {
	err := s.inspector.DeleteTask("default", reminderTaskID(bookingID))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return fmt.Errorf("failed to delete reminder task: %w", err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (s *Scheduler) Close() error {
	return s.client.Close()
}
