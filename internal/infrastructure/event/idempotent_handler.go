package event

import (
	"context"
	"time"

	"github.com/taponce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const idempotentKeyPrefix = "event:"

// IdempotentHandler wraps a handler so each event ID is handled at most once
// within ttl, even if the event is published twice.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger
}

// NewIdempotentHandler creates the wrapper
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{
		handler: handler,
		store:   store,
		ttl:     ttl,
		logger:  logger,
	}
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle claims the event ID before delegating. A store failure is logged
// and the event is processed anyway.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := idempotentKeyPrefix + event.EventID().String()

	isNew, err := h.store.MarkProcessed(ctx, key, h.ttl)
	if err != nil {
		h.logger.Warn("failed to check event idempotency, processing anyway",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	} else if !isNew {
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		// let a redelivery retry the event
		if releaseErr := h.store.Release(ctx, key); releaseErr != nil {
			h.logger.Warn("failed to release event key", zap.Error(releaseErr))
		}
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
