// File: utils/lock.go
package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// AcquireLock takes a short-lived redis lock on key. It returns a release
// function and true on success; the release only deletes the key if this
// caller still owns it.
func AcquireLock(ctx context.Context, client *redis.Client, key string, ttl time.Duration) (func(), bool) {
	token := uuid.New().String()
	ok, err := client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return func() {}, false
	}
	release := func() {
		val, err := client.Get(ctx, key).Result()
		if err == redis.Nil || err != nil {
			return
		}
		if val == token {
			client.Del(ctx, key)
		}
	}
	return release, true
}
