package lock

import (
	"context"
	"sync"
	"time"
)

// Keyed is an in-process Locker. It only serializes callers in the same process.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
	timeout time.Duration
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

func NewKeyed(timeout time.Duration) *Keyed {
	return &Keyed{entries: make(map[string]*keyedEntry), timeout: timeout}
}

func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	e := k.ref(key)

	lockCtx, cancel := withTimeout(ctx, k.timeout)
	defer cancel()

	select {
	case e.ch <- struct{}{}:
	case <-lockCtx.Done():
		k.unref(key, e)
		return nil, acquireErr(ctx, lockCtx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.unref(key, e)
		})
	}, nil
}

func (k *Keyed) ref(key string) *keyedEntry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) unref(key string, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

// size is the number of keys currently tracked.
func (k *Keyed) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
