package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "leaderboard:recompute_lock"

// AcquireRunLock takes the recompute lock so overlapping triggers (cron plus
// an on-demand POST) cannot run two recomputes at once. Without Redis the
// lock degrades to a no-op.
func AcquireRunLock(ctx context.Context, rdb *redis.Client, ttl time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, runLockKey, "locked", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire recompute lock: %w", err)
	}

	return wasSet, nil
}

func ReleaseRunLock(ctx context.Context, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, runLockKey).Result()
	return err
}
