// README: Redis client and the shared fixed-window rate limiter built on it.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:%s:%d"

func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// RedisLimiter allows up to limit calls per key in each window, counted in Redis so
// every API instance shares the budget.
type RedisLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{redis: client, limit: int64(limit), window: window, now: time.Now}
}

// Allow counts one call for key in the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	k := fmt.Sprintf(rateLimitKeyPrefix, key, slot)

	pipe := l.redis.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}
