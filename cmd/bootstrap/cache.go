package bootstrap

import (
	"context"
	"log/slog"

	"venue-reservation/internal/handler/middleware"
	"venue-reservation/internal/infra/cache"
	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Redis is optional. Without it the rate limiter is off and every replica sweeps.
var CacheModule = fx.Module("cache",
	fx.Provide(
		NewRedis,
		NewRateLimiter,
		NewSweepLocker,
	),
)

func NewRedis(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	rdb, cleanup, err := cache.Connect(cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		slog.Info("redis not configured; rate limiting and sweep locking disabled")
		return nil, nil
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return rdb, nil
}

// Return the interface nil explicitly; a typed nil would look like a live limiter.
func NewRateLimiter(rdb *redis.Client, cfg config.Config) middleware.RateLimiter {
	if rdb == nil || !cfg.RateLimit.Enabled {
		return nil
	}
	return cache.NewTokenBucket(rdb, cfg.RateLimit)
}

func NewSweepLocker(rdb *redis.Client) worker.Locker {
	if rdb == nil {
		return nil
	}
	return cache.NewLocker(rdb)
}
