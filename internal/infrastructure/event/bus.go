// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/erp/ecocare/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers events synchronously to the handlers registered
// for their type. A failing or panicking handler does not stop delivery to
// the others.
type InMemoryEventBus struct {
	registry  *HandlerRegistry
	logger    *zap.Logger
	running   atomic.Bool
	delivered atomic.Int64
	failed    atomic.Int64
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.Handlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.failed.Add(1)
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("tenant_id", event.TenantID().String()),
					zap.Error(err),
				)
				continue
			}
			b.delivered.Add(1)
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for handler.EventTypes()
// when none are given. A handler with no types receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped",
		zap.Int64("delivered", b.delivered.Load()),
		zap.Int64("failed", b.failed.Load()),
	)
	return nil
}

// Stats returns the number of successful and failed deliveries.
func (b *InMemoryEventBus) Stats() (delivered, failed int64) {
	return b.delivered.Load(), b.failed.Load()
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
