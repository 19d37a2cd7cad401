package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/errs"
)

// Postgres holds a session-level advisory lock on a dedicated pooled
// connection. It serializes every process sharing the database.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgres(pool *pgxpool.Pool, timeout time.Duration) *Postgres {
	return &Postgres{pool: pool, timeout: timeout}
}

func (p *Postgres) Lock(ctx context.Context, key string) (func(), error) {
	lockCtx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.pool.Acquire(lockCtx)
	if err != nil {
		if lockCtx.Err() != nil {
			return nil, acquireErr(ctx, lockCtx.Err())
		}
		return nil, errs.Wrap(err, "acquire lock connection")
	}

	if _, err := conn.Exec(lockCtx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		conn.Release()
		if lockCtx.Err() != nil {
			return nil, acquireErr(ctx, lockCtx.Err())
		}
		return nil, errs.Wrapf(err, "advisory lock %s", key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
				// Closing the session releases every advisory lock it holds.
				slog.Warn("advisory unlock failed, closing connection", "key", key, "error", err)
				_ = conn.Conn().Close(unlockCtx)
			}
			conn.Release()
		})
	}, nil
}
