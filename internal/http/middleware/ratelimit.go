// README: Per-caller rate limiting for the generation endpoint.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may make another call.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects callers over their budget with 429. Signed-in callers are keyed
// by uid, others by client IP, so it must run after OptionalAuth. Limiter errors
// let the request through. A nil limiter disables the check.
func RateLimit(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if uid := CallerUID(c); uid != "" {
			key = "uid:" + uid
		}

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable; allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			logger.Info("rate limit exceeded", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// DefaultIdleTTL is how long a LocalLimiter keeps the bucket of a quiet caller.
const DefaultIdleTTL = 10 * time.Minute

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is an in-process token bucket per key for single-instance deployments.
// Buckets idle for longer than idleTTL are dropped during a later Allow call, so
// memory stays proportional to recently active callers.
type LocalLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	every     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLocalLimiter allows perMinute calls per key per minute, with bursts up to perMinute.
func NewLocalLimiter(perMinute int) *LocalLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &LocalLimiter{
		buckets: make(map[string]*localBucket),
		every:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// sweep drops idle buckets at most once per idleTTL. A dropped bucket was refilled
// long ago, so recreating it later gives the same answer.
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Len reports how many callers currently hold a bucket.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
