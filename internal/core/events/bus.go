package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

// EventBus fans lifecycle events out to in-process subscribers.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
	inflight sync.WaitGroup
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("event handler registered", "event_type", eventType, "handlers", len(b.handlers[eventType]))
}

// SubscribeAll registers handler for each of eventTypes.
func (b *EventBus) SubscribeAll(eventTypes []string, handler Handler) {
	for _, eventType := range eventTypes {
		b.Subscribe(eventType, handler)
	}
}

func (b *EventBus) handlersFor(event Event) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := b.handlers[event.EventType()]
	if len(handlers) == 0 {
		b.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}
	return append([]Handler(nil), handlers...)
}

// Publish starts every handler in its own goroutine and returns at once.
// Handler failures are logged; Wait blocks until the handlers are done.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	handlers := b.handlersFor(event)
	if handlers == nil {
		return nil
	}

	b.logger.Info("publishing event", "event_type", event.EventType(), "event_id", event.EventID(), "handlers", len(handlers))

	// handlers outlive the publishing call, so they keep its values but not its deadline
	hctx := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			if err := h(hctx, event); err != nil {
				b.logger.Error("event handler failed", "event_type", event.EventType(), "event_id", event.EventID(), "error", err)
			}
		}(handler)
	}
	return nil
}

// PublishSync runs the handlers in subscription order and stops at the first failure.
func (b *EventBus) PublishSync(ctx context.Context, event Event) error {
	for _, handler := range b.handlersFor(event) {
		if err := handler(ctx, event); err != nil {
			return fmt.Errorf("handler failed for event %s: %w", event.EventType(), err)
		}
	}
	return nil
}

// Wait blocks until every handler started by Publish has returned.
func (b *EventBus) Wait() {
	b.inflight.Wait()
}
