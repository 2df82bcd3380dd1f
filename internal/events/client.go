package events

import "context"

// Client publishes extraction lifecycle events. Publishing is fire-and-forget
// from the caller's perspective; failures are logged, never fatal.
type Client interface {
	Publish(ctx context.Context, msg Message) error
}
