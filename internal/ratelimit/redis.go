package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "waitlist:join:"

// Redis shares the submission window across instances with a single
// SET NX PX per attempt: the first writer in a window wins, everyone else is
// limited until the key expires.
type Redis struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedis(rdb *redis.Client, window time.Duration) *Redis {
	return &Redis{rdb: rdb, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	ok, err := r.rdb.SetNX(ctx, keyPrefix+key, 1, r.window).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit check: %w", err)
	}
	return ok, nil
}
