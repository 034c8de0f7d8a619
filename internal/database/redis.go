package database

import (
	"context"
	"net"

	"github.com/ecolehub/sel/internal/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis connects to Redis. It returns nil when the server is unreachable;
// every Redis consumer treats a nil client as "feature disabled".
func InitRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("[REDIS] connection failed, continuing without Redis", zap.Error(err))
		rdb.Close()
		return nil
	}

	log.Info("[REDIS] connection established")
	return rdb
}
