package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/errs"
)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Redis is a Locker based on SET NX with an expiry. The expiry bounds how
// long a crashed holder can block others.
type Redis struct {
	client  redis.Cmdable
	ttl     time.Duration
	timeout time.Duration
	retry   time.Duration
	token   func() string
}

func NewRedis(client redis.Cmdable, ttl, timeout time.Duration) *Redis {
	return &Redis{
		client:  client,
		ttl:     ttl,
		timeout: timeout,
		retry:   50 * time.Millisecond,
		token:   uuid.NewString,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	lockCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	token := r.token()
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(lockCtx, key, token, r.ttl).Result()
		if err != nil {
			if lockCtx.Err() != nil {
				return nil, acquireErr(ctx, lockCtx.Err())
			}
			return nil, errs.Wrapf(err, "redis lock %s", key)
		}
		if ok {
			break
		}

		select {
		case <-ticker.C:
		case <-lockCtx.Done():
			return nil, acquireErr(ctx, lockCtx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := r.client.Eval(unlockCtx, releaseScript, []string{key}, token).Err(); err != nil {
				slog.Warn("redis unlock failed, key will expire", "key", key, "error", err)
			}
		})
	}, nil
}
