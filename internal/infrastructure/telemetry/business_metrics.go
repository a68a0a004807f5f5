package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned by NewBusinessMetrics without a meter
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// BusinessMetrics records order, commission and payout activity as OTel
// instruments. It satisfies the same recorder contract as the Prometheus
// Metrics so one event subscriber shape feeds both.
type BusinessMetrics struct {
	ordersSubmitted   metric.Int64Counter
	orderTransitions  metric.Int64Counter
	commissionAccrued metric.Float64UpDownCounter
	agentApplications metric.Int64Counter
	payoutsCompleted  metric.Int64Counter
	payoutAmount      metric.Float64Histogram
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error
	if bm.ordersSubmitted, err = meter.Int64Counter("taponce.orders.submitted",
		metric.WithDescription("Orders submitted"), metric.WithUnit("{order}")); err != nil {
		return nil, instrumentError("taponce.orders.submitted", err)
	}
	if bm.orderTransitions, err = meter.Int64Counter("taponce.orders.transitions",
		metric.WithDescription("Order status transitions"), metric.WithUnit("{transition}")); err != nil {
		return nil, instrumentError("taponce.orders.transitions", err)
	}
	if bm.commissionAccrued, err = meter.Float64UpDownCounter("taponce.commission.accrued",
		metric.WithDescription("Net commission credited to agents, reversals included"), metric.WithUnit("INR")); err != nil {
		return nil, instrumentError("taponce.commission.accrued", err)
	}
	if bm.agentApplications, err = meter.Int64Counter("taponce.agents.applications",
		metric.WithDescription("Agent applications received"), metric.WithUnit("{application}")); err != nil {
		return nil, instrumentError("taponce.agents.applications", err)
	}
	if bm.payoutsCompleted, err = meter.Int64Counter("taponce.payouts.completed",
		metric.WithDescription("Payouts completed"), metric.WithUnit("{payout}")); err != nil {
		return nil, instrumentError("taponce.payouts.completed", err)
	}
	if bm.payoutAmount, err = meter.Float64Histogram("taponce.payouts.amount",
		metric.WithDescription("Completed payout amounts"), metric.WithUnit("INR"),
		metric.WithExplicitBucketBoundaries(500, 1000, 2500, 5000, 10000, 25000, 50000)); err != nil {
		return nil, instrumentError("taponce.payouts.amount", err)
	}
	return bm, nil
}

func instrumentError(name string, err error) error {
	return fmt.Errorf("failed to create instrument %s: %w", name, err)
}

// RecordOrderSubmitted counts a submitted order by sales channel
func (bm *BusinessMetrics) RecordOrderSubmitted(channel string) {
	bm.ordersSubmitted.Add(context.Background(), 1, metric.WithAttributes(attribute.String("channel", channel)))
}

// RecordTransition counts a status change and moves the commission total by
// its delta. Reversals carry a negative delta.
func (bm *BusinessMetrics) RecordTransition(to string, commissionDelta float64) {
	ctx := context.Background()
	status := attribute.String("status", to)
	bm.orderTransitions.Add(ctx, 1, metric.WithAttributes(status))
	if commissionDelta != 0 {
		bm.commissionAccrued.Add(ctx, commissionDelta, metric.WithAttributes(status))
	}
}

// RecordAgentApplication counts an agent application
func (bm *BusinessMetrics) RecordAgentApplication() {
	bm.agentApplications.Add(context.Background(), 1)
}

// RecordPayout counts a completed payout and its amount
func (bm *BusinessMetrics) RecordPayout(amount float64) {
	ctx := context.Background()
	bm.payoutsCompleted.Add(ctx, 1)
	bm.payoutAmount.Record(ctx, amount)
}
