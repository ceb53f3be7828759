package ports

import (
	"context"

	"github.com/summitcrest/realty/internal/domain"
)

// EventHandler handles a published domain event
type EventHandler func(ctx context.Context, event domain.Event) error

// EventPublisher is the in-process pub/sub surface
type EventPublisher interface {
	// Subscribe registers a handler and returns a function that removes it
	Subscribe(eventType domain.EventType, handler EventHandler) func()

	// Publish dispatches an event to every handler of its type
	Publish(ctx context.Context, event domain.Event) error
}
