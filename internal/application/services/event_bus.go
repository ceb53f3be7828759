package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/ports"
)

type subscription struct {
	id      uint64
	handler ports.EventHandler
}

// EventBus is the in-process publish-subscribe system.
// It implements ports.EventPublisher.
type EventBus struct {
	handlers map[domain.EventType][]subscription
	nextID   uint64
	mu       sync.RWMutex
}

// Ensure EventBus implements ports.EventPublisher at compile time
var _ ports.EventPublisher = (*EventBus)(nil)

// NewEventBus creates a new EventBus instance
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[domain.EventType][]subscription),
	}
}

// Subscribe registers a handler for a specific event type.
// Returns an unsubscribe function.
func (eb *EventBus) Subscribe(eventType domain.EventType, handler ports.EventHandler) func() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := eb.nextID
	eb.handlers[eventType] = append(eb.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()

		subs := eb.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				eb.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Publish runs every handler for the event type in registration order.
// A failing handler does not stop the others; their errors are joined.
func (eb *EventBus) Publish(ctx context.Context, event domain.Event) error {
	eb.mu.RLock()
	subs := eb.handlers[event.Type]
	eb.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.handler(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("handler for %s: %w", event.Type, err))
		}
	}
	return errors.Join(errs...)
}
