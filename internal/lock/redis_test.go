package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, timeout, retry time.Duration) (*Redis, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = db.Close() })

	r := NewRedis(db, 10*time.Second, timeout)
	r.retry = retry
	r.token = func() string { return "token-1" }
	return r, mock
}

func TestRedisLockAndRelease(t *testing.T) {
	r, mock := newTestRedis(t, time.Second, time.Millisecond)
	key := "booking:resource:1"

	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{key}, "token-1").SetVal(int64(1))

	unlock, err := r.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock()
	unlock()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRetriesWhileHeld(t *testing.T) {
	r, mock := newTestRedis(t, time.Second, time.Millisecond)
	key := "booking:resource:2"

	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(false)
	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(false)
	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{key}, "token-1").SetVal(int64(1))

	unlock, err := r.Lock(context.Background(), key)
	require.NoError(t, err)
	unlock()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisTimeout(t *testing.T) {
	r, mock := newTestRedis(t, 20*time.Millisecond, time.Hour)
	key := "booking:resource:3"

	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetVal(false)

	_, err := r.Lock(context.Background(), key)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisError(t *testing.T) {
	r, mock := newTestRedis(t, time.Second, time.Millisecond)
	key := "booking:resource:4"
	down := errors.New("connection refused")

	mock.ExpectSetNX(key, "token-1", 10*time.Second).SetErr(down)

	_, err := r.Lock(context.Background(), key)
	assert.ErrorIs(t, err, down)
	assert.NoError(t, mock.ExpectationsWereMet())
}
