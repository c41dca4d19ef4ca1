package event

import (
	"context"
	"time"

	"github.com/erp/ecocare/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultEventTTL is how long a handled event id is remembered.
const DefaultEventTTL = 24 * time.Hour

// IdempotentHandler wraps an EventHandler so each event id is handled once.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	name    string
	logger  *zap.Logger
}

// NewIdempotentHandler wraps handler. name scopes the stored keys so two
// handlers of the same event do not share them.
func NewIdempotentHandler(name string, handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = DefaultEventTTL
	}
	return &IdempotentHandler{
		handler: handler,
		store:   store,
		ttl:     ttl,
		name:    name,
		logger:  logger,
	}
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler unless the event id was already seen. When
// the store is unreachable the event is handled anyway. A failed event is
// released so a redelivery can retry it.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := "event:" + h.name + ":" + event.EventID().String()

	fresh, err := h.store.MarkProcessed(ctx, key, h.ttl)
	if err != nil {
		h.logger.Warn("failed to check idempotency, processing anyway",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	} else if !fresh {
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		if ferr := h.store.Forget(ctx, key); ferr != nil {
			h.logger.Warn("failed to release event key", zap.String("key", key), zap.Error(ferr))
		}
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
