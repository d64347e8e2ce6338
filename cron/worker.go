package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"smartpark/config"
	bookingRepo "smartpark/database/repository/booking"
	"smartpark/models"
	"smartpark/services/notification"
	"smartpark/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in background. The queue
// lives in redis, so reminders survive process restarts and a single worker
// fires each one exactly once across replicas.
func InitReminderWorker(notifSvc notification.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		data := map[string]string{
			"bookingId": p.BookingID,
			"fireDate":  p.FireDate,
			"title":     p.Title,
			"body":      p.Body,
		}
		if err := notifSvc.Send(ctx, p.UserID, notification.TemplateExitReminder, data); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for booking %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}

// StartMaintenanceCron runs the periodic sweeps: expiring stale pending
// holds, archiving old completed bookings, and purging archived records past
// the retention window.
func StartMaintenanceCron(ctx context.Context, repo bookingRepo.Repository) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	retentionTicker := time.NewTicker(24 * time.Hour)
	defer retentionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Maintenance cron shutdown signal received.")
			return
		case <-ticker.C:
			if n, err := repo.ExpireStale(ctx, time.Now()); err != nil {
				log.Printf("Stale booking sweep failed: %v\n", err)
			} else if n > 0 {
				log.Printf("Expired %d stale pending bookings\n", n)
			}
		case <-retentionTicker.C:
			cutoff := time.Now().AddDate(0, 0, -config.AppConfig.RetentionDays)
			if n, err := repo.ArchiveCompletedBefore(ctx, cutoff); err != nil {
				log.Printf("Archive sweep failed: %v\n", err)
			} else if n > 0 {
				log.Printf("Archived %d completed bookings\n", n)
			}
			if n, err := repo.PurgeArchivedBefore(ctx, cutoff); err != nil {
				log.Printf("Retention purge failed: %v\n", err)
			} else if n > 0 {
				log.Printf("Purged %d archived bookings\n", n)
			}
		}
	}
}
