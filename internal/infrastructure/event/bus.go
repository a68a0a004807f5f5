// Package event dispatches domain events raised by aggregates to the
// handlers that react to them (notifications, metrics).
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// HandlerFunc adapts a function to shared.EventHandler
type HandlerFunc struct {
	Types []string
	Fn    func(ctx context.Context, event shared.DomainEvent) error
}

func (f HandlerFunc) Handle(ctx context.Context, event shared.DomainEvent) error {
	return f.Fn(ctx, event)
}

func (f HandlerFunc) EventTypes() []string {
	return f.Types
}

// InMemoryEventBus delivers events synchronously to subscribed handlers.
// Handler errors and panics are logged and never reach the publisher.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler
	logger   *zap.Logger
	running  atomic.Bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Publish dispatches each event to its handlers in subscription order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. With no event types the handler's own
// EventTypes are used; if those are empty too it receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = without(b.wildcard, handler)
	for t, hs := range b.handlers {
		if hs = without(hs, handler); len(hs) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = hs
		}
	}
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop marks the bus as stopped
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.handlers[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	out = append(out, typed...)
	return append(out, b.wildcard...)
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, event)
}

func without(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
