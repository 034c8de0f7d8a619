package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRateLimiter_Check(t *testing.T) {
	ctx := context.Background()
	key := rateLimitKey(alice)

	t.Run("under the limit", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(redisClient, 30, time.Hour, zap.NewNop())
		mock.ExpectGet(key).SetVal("29")

		assert.NoError(t, limiter.Check(ctx, alice))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit reached", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(redisClient, 30, time.Hour, zap.NewNop())
		mock.ExpectGet(key).SetVal("30")

		assert.ErrorIs(t, limiter.Check(ctx, alice), ErrRateLimited)
	})

	t.Run("no counter yet", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(redisClient, 30, time.Hour, zap.NewNop())
		mock.ExpectGet(key).RedisNil()

		assert.NoError(t, limiter.Check(ctx, alice))
	})

	t.Run("redis down lets the request through", func(t *testing.T) {
		redisClient, mock := redismock.NewClientMock()
		limiter := NewRateLimiter(redisClient, 30, time.Hour, zap.NewNop())
		mock.ExpectGet(key).SetErr(errors.New("connection refused"))

		assert.NoError(t, limiter.Check(ctx, alice))
	})

	t.Run("disabled without redis", func(t *testing.T) {
		var limiter *RateLimiter
		assert.NoError(t, limiter.Check(ctx, alice))
		limiter.Record(ctx, alice)

		assert.NoError(t, NewRateLimiter(nil, 30, time.Hour, zap.NewNop()).Check(ctx, alice))
	})
}

func TestRateLimiter_Record(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(redisClient, 30, time.Hour, zap.NewNop())

	key := rateLimitKey(alice)
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, time.Hour).SetVal(true)

	limiter.Record(context.Background(), alice)
	assert.NoError(t, mock.ExpectationsWereMet())

	t.Run("later requests keep the window", func(t *testing.T) {
		mock.ExpectIncr(key).SetVal(2)

		limiter.Record(context.Background(), alice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
