// Package events delivers domain events to a message broker off the request path.
package events

import "context"

// Sink publishes one JSON-encoded message under a routing key.
type Sink interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

// Noop discards every message. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishJSON(context.Context, string, any) error { return nil }

func (Noop) Close() error { return nil }
