package cache

import (
	"context"
	"time"

	"venue-reservation/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

type Locker struct {
	rdb *redis.Client
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{rdb: rdb}
}

// TryLock takes key for ttl if nobody holds it. The returned release is a no-op when
// the lock was not acquired.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, noop, errs.Wrapf(err, "failed to acquire lock %s", key)
	}
	if !ok {
		return false, noop, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			return errs.Wrapf(err, "failed to release lock %s", key)
		}
		return nil
	}
	return true, release, nil
}
