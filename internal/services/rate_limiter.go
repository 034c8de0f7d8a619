package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateLimiter caps how many transactions a member may request per window.
// A nil limiter, or one without Redis, allows everything.
type RateLimiter struct {
	redis  *redis.Client
	max    int
	window time.Duration
	log    *zap.Logger
}

func NewRateLimiter(rdb *redis.Client, max int, window time.Duration, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  rdb,
		max:    max,
		window: window,
		log:    log,
	}
}

func rateLimitKey(memberID uuid.UUID) string {
	return fmt.Sprintf("sel:ratelimit:tx:%s", memberID)
}

func (l *RateLimiter) enabled() bool {
	return l != nil && l.redis != nil && l.max > 0
}

// Check returns ErrRateLimited once the member used up the window. Redis
// failures are logged and let the request through.
func (l *RateLimiter) Check(ctx context.Context, memberID uuid.UUID) error {
	if !l.enabled() {
		return nil
	}

	count, err := l.redis.Get(ctx, rateLimitKey(memberID)).Int()
	if err != nil && err != redis.Nil {
		l.log.Warn("[RATELIMIT] check failed, allowing request",
			zap.String("member_id", memberID.String()), zap.Error(err))
		return nil
	}

	if count >= l.max {
		return ErrRateLimited
	}
	return nil
}

// Record counts one request against the member's window. The window opens
// with the first request and is not extended by later ones.
func (l *RateLimiter) Record(ctx context.Context, memberID uuid.UUID) {
	if !l.enabled() {
		return
	}

	key := rateLimitKey(memberID)
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn("[RATELIMIT] record failed",
			zap.String("member_id", memberID.String()), zap.Error(err))
		return
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Warn("[RATELIMIT] window expiry not set",
				zap.String("member_id", memberID.String()), zap.Error(err))
		}
	}
}
