// Package eventing holds the small contract that Go artifacts generated by
// eventor-gen compile against. Transports implement Sender and dispatch
// incoming messages to the Handler of a matching Subscription.
package eventing

import (
	"context"
	"encoding/json"
	"fmt"
)

// Sender publishes a payload to a topic. An empty key lets the transport
// choose the partition.
type Sender interface {
	Send(ctx context.Context, topic, key string, payload any) error
}

// Handler processes one raw message
type Handler func(ctx context.Context, payload []byte) error

// Subscription binds a generated consumer method to a topic
type Subscription struct {
	Topic           string
	GroupID         string
	ListenerFactory string
	Method          string
	Handler         Handler
}

// JSONHandler adapts a typed handler to raw JSON payloads
func JSONHandler[T any](fn func(ctx context.Context, event *T) error) Handler {
	return func(ctx context.Context, payload []byte) error {
		event := new(T)
		if err := json.Unmarshal(payload, event); err != nil {
			return fmt.Errorf("decoding %T: %w", event, err)
		}
		return fn(ctx, event)
	}
}
