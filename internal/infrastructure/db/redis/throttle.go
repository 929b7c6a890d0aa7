package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle is a fixed-window rate limiter backed by Redis.
// Key format: throttle:<key>, a counter expiring with the window.
type Throttle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewThrottle allows up to limit events per window for each key.
func NewThrottle(client *redis.Client, limit int, window time.Duration) *Throttle {
	return &Throttle{client: client, limit: int64(limit), window: window}
}

// Allow increments the window counter for key and reports whether the
// event is within the limit.
func (t *Throttle) Allow(ctx context.Context, key string) (bool, error) {
	k := "throttle:" + key

	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= t.limit, nil
}
