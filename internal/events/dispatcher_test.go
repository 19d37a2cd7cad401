package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	keys   []string
	fail   map[string]bool
	closed bool
	block  chan struct{}
}

func (s *recordingSink) PublishJSON(_ context.Context, key string, _ any) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[key] {
		return errors.New("broker unavailable")
	}
	s.keys = append(s.keys, key)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 16)

	ctx := context.Background()
	d.Publish(ctx, "booking.created", map[string]int{"id": 1})
	d.Publish(ctx, "booking.updated", map[string]int{"id": 1})
	d.Publish(ctx, "booking.cancelled", map[string]int{"id": 1})

	require.NoError(t, d.Close())
	assert.Equal(t, []string{"booking.created", "booking.updated", "booking.cancelled"}, sink.keys)
	assert.True(t, sink.closed)
	assert.NoError(t, d.Close())
}

func TestDispatcherContinuesAfterFailure(t *testing.T) {
	sink := &recordingSink{fail: map[string]bool{"booking.created": true}}
	d := NewDispatcher(sink, 16)

	ctx := context.Background()
	d.Publish(ctx, "booking.created", nil)
	d.Publish(ctx, "booking.cancelled", nil)

	require.NoError(t, d.Close())
	assert.Equal(t, []string{"booking.cancelled"}, sink.keys)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(sink, 1)

	ctx := context.Background()
	// The worker may or may not have taken the first message yet; in either
	// case at most two fit (one in flight, one queued) and the rest are dropped.
	for range 5 {
		d.Publish(ctx, "booking.created", nil)
	}
	close(sink.block)

	require.NoError(t, d.Close())
	assert.LessOrEqual(t, len(sink.keys), 2)
	assert.GreaterOrEqual(t, len(sink.keys), 1)
}

func TestNoop(t *testing.T) {
	var s Sink = Noop{}
	assert.NoError(t, s.PublishJSON(context.Background(), "k", struct{}{}))
	assert.NoError(t, s.Close())
}
