package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nekogravitycat/coworking-booking-backend/internal/metrics"
)

type message struct {
	ctx     context.Context
	key     string
	payload any
}

// Dispatcher queues messages and publishes them from a single worker
// goroutine. Publish never blocks; when the queue is full the message is
// dropped and logged.
type Dispatcher struct {
	sink    Sink
	queue   chan message
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink, size int) *Dispatcher {
	d := &Dispatcher{
		sink:    sink,
		queue:   make(chan message, size),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Publish(ctx context.Context, key string, payload any) {
	select {
	case d.queue <- message{ctx: ctx, key: key, payload: payload}:
		metrics.EventQueueLength.Set(float64(len(d.queue)))
	default:
		metrics.RecordEvent("dropped")
		slog.WarnContext(ctx, "event queue full, dropping event", "key", key)
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		metrics.EventQueueLength.Set(float64(len(d.queue)))

		ctx, cancel := context.WithTimeout(msg.ctx, d.timeout)
		err := d.sink.PublishJSON(ctx, msg.key, msg.payload)
		cancel()

		if err != nil {
			metrics.RecordEvent("failed")
			slog.ErrorContext(msg.ctx, "failed to publish event", "key", msg.key, "error", err)
			continue
		}
		metrics.RecordEvent("ok")
	}
}

// Close stops accepting messages, drains the queue and closes the sink.
// Publish must not be called after Close.
func (d *Dispatcher) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.queue)
		<-d.done
		err = d.sink.Close()
	})
	return err
}
