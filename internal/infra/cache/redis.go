// Package cache holds the Redis-backed coordination used across replicas.
package cache

import (
	"context"
	"time"

	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// Connect returns a nil client when Redis is not configured.
func Connect(cfg config.RedisConfig) (*redis.Client, func(), error) {
	if !cfg.Enabled() {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errs.Wrapf(err, "failed to ping redis at %s", cfg.Addr)
	}

	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}
