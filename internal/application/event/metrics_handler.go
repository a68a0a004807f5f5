// Package event holds application-level subscribers of the event bus that
// are not owned by a single bounded context.
package event

import (
	"context"

	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/order"
	"github.com/taponce/backend/internal/domain/shared"
)

// BusinessRecorder receives business counters
type BusinessRecorder interface {
	RecordOrderSubmitted(channel string)
	RecordTransition(to string, commissionDelta float64)
	RecordAgentApplication()
	RecordPayout(amount float64)
}

// MetricsHandler feeds domain events into business metrics
type MetricsHandler struct {
	recorder BusinessRecorder
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(recorder BusinessRecorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// EventTypes returns the event types this handler is interested in
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderSubmitted,
		order.EventTypeOrderStatusChanged,
		agent.EventTypeAgentApplied,
		agent.EventTypePayoutCompleted,
	}
}

// Handle records the event. Unknown events are ignored.
func (h *MetricsHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderSubmittedEvent:
		channel := "agent"
		if e.IsDirectSale {
			channel = "direct"
		}
		h.recorder.RecordOrderSubmitted(channel)
	case *order.OrderStatusChangedEvent:
		h.recorder.RecordTransition(e.ToStatus.String(), e.CommissionDelta.InexactFloat64())
	case *agent.AgentAppliedEvent:
		h.recorder.RecordAgentApplication()
	case *agent.PayoutCompletedEvent:
		h.recorder.RecordPayout(e.Amount.InexactFloat64())
	}
	return nil
}

// Ensure MetricsHandler implements shared.EventHandler
var _ shared.EventHandler = (*MetricsHandler)(nil)
