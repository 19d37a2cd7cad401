// Package lock provides keyed mutual exclusion with in-process, PostgreSQL
// and Redis backends.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/apperror"
)

// ErrTimeout is returned when a lock could not be acquired in time.
var ErrTimeout = apperror.New(apperror.KindConflict, "resource is busy, try again")

// Locker acquires an exclusive lock on key. The returned unlock func is safe
// to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// withTimeout bounds ctx by timeout when timeout is positive.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// acquireErr reports ErrTimeout when our own deadline fired and the parent
// context is still alive.
func acquireErr(parent context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return ErrTimeout
	}
	return err
}
