package parking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartpark/config"

	"github.com/go-redis/redis/v8"
)

// PendingExit is the state of an exit scan awaiting the external payment
// channel. It lives only for the kiosk payment window; once the window
// lapses the next completion call settles the fee as a due.
type PendingExit struct {
	Ref       string    `json:"ref"`
	BookingID string    `json:"bookingId"`
	Amount    float64   `json:"amount"`
	Shortfall float64   `json:"shortfall"`
	ScannedAt time.Time `json:"scannedAt"`
}

// PaymentWindow stores pending exits for the duration of the kiosk payment
// window. Expiry is the deadline check: a missing entry means the window
// lapsed.
type PaymentWindow interface {
	Open(ctx context.Context, pending *PendingExit) error
	Get(ctx context.Context, bookingID string) (*PendingExit, error)
	Close(ctx context.Context, bookingID string) error
}

// RedisPaymentWindow implements PaymentWindow with a TTL'd redis key per
// booking.
type RedisPaymentWindow struct {
	Client *redis.Client
}

func NewRedisPaymentWindow(client *redis.Client) *RedisPaymentWindow {
	return &RedisPaymentWindow{Client: client}
}

func windowKey(bookingID string) string {
	return "exit_window:" + bookingID
}

func (w *RedisPaymentWindow) Open(ctx context.Context, pending *PendingExit) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending exit: %w", err)
	}
	ttl := time.Duration(config.AppConfig.PaymentWindowSeconds) * time.Second
	if err := w.Client.Set(ctx, windowKey(pending.BookingID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to open payment window: %w", err)
	}
	return nil
}

// Get returns nil when no window is open for the booking (never opened, or
// already lapsed).
func (w *RedisPaymentWindow) Get(ctx context.Context, bookingID string) (*PendingExit, error) {
	data, err := w.Client.Get(ctx, windowKey(bookingID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payment window: %w", err)
	}
	var pending PendingExit
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, fmt.Errorf("failed to decode pending exit: %w", err)
	}
	return &pending, nil
}

func (w *RedisPaymentWindow) Close(ctx context.Context, bookingID string) error {
	if err := w.Client.Del(ctx, windowKey(bookingID)).Err(); err != nil {
		return fmt.Errorf("failed to close payment window: %w", err)
	}
	return nil
}
