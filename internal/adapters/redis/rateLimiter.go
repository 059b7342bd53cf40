package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiterRedis counts requests per key in fixed windows.
type RateLimiterRedis struct {
	Client *redis.Client
	Limit  int
	Window time.Duration

	now func() time.Time
}

func NewRateLimiterRedis(client *redis.Client, limit int, window time.Duration) *RateLimiterRedis {
	return &RateLimiterRedis{
		Client: client,
		Limit:  limit,
		Window: window,
		now:    time.Now,
	}
}

// Allow records one request for key. When the window's budget is spent it
// returns false and the time left until the window resets.
func (r *RateLimiterRedis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := r.now()
	windowStart := now.Truncate(r.Window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, windowStart.Unix())

	pipe := r.Client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}

	if incr.Val() > int64(r.Limit) {
		return false, windowStart.Add(r.Window).Sub(now), nil
	}
	return true, 0, nil
}
