package parking

import (
	"context"
	"time"

	"smartpark/utils"

	"github.com/go-redis/redis/v8"
)

// floorLockTTL bounds how long an admission lock can be held if a request
// dies mid-flight.
const floorLockTTL = 5 * time.Second

// FloorLocker serializes the capacity count-then-insert on a floor so two
// requests cannot both claim the last remaining spot.
type FloorLocker interface {
	// Lock acquires the floor's admission lock. ok is false when another
	// request holds it; callers should treat that as transient contention.
	Lock(ctx context.Context, floorID string) (release func(), ok bool)
}

// RedisFloorLocker implements FloorLocker on a redis SetNX lock.
type RedisFloorLocker struct {
	Client *redis.Client
}

func NewRedisFloorLocker(client *redis.Client) *RedisFloorLocker {
	return &RedisFloorLocker{Client: client}
}

func (l *RedisFloorLocker) Lock(ctx context.Context, floorID string) (func(), bool) {
	return utils.AcquireLock(ctx, l.Client, "floor_lock:"+floorID, floorLockTTL)
}
