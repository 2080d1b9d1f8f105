package ratelimit

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/badgescan/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewLocker),
	fx.Provide(ProvideScanIngestLimiter),
)

// NewRedisClient returns nil when rate limiting is disabled; every consumer
// treats a nil client as "feature off".
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if !cfg.RateLimit.Enabled || strings.TrimSpace(cfg.RateLimit.RedisAddr) == "" {
		log.Info("rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis ping failed", zap.String("addr", cfg.RateLimit.RedisAddr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	log.Info("rate limiting enabled", zap.String("addr", cfg.RateLimit.RedisAddr))
	return client
}

func ProvideScanIngestLimiter(client *redis.Client, policy *config.ScanPolicyHolder) *ScanIngestLimiter {
	if client == nil {
		return nil
	}
	return NewScanIngestLimiter(NewTokenBucket(client), policy)
}
