package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API on a private registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersSubmitted     *prometheus.CounterVec
	OrderTransitions    *prometheus.CounterVec
	CommissionCredited  prometheus.Counter
	CommissionReversed  prometheus.Counter
	PayoutsCompleted    prometheus.Counter
	PayoutAmount        prometheus.Counter
	AgentApplications   prometheus.Counter
	BalanceDrift        *prometheus.GaugeVec
	BalanceAuditRuns    *prometheus.CounterVec
	IdempotentConflicts prometheus.Counter
}

// NewMetrics creates and registers every collector, plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taponce_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taponce_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OrdersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taponce_orders_submitted_total",
			Help: "Orders submitted, by channel (agent or direct)",
		}, []string{"channel"}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taponce_order_transitions_total",
			Help: "Order status transitions by target status",
		}, []string{"to"}),
		CommissionCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taponce_commission_credited_rupees_total",
			Help: "Commission credited to agent balances",
		}),
		CommissionReversed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taponce_commission_reversed_rupees_total",
			Help: "Commission reversed from agent balances",
		}),
		PayoutsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taponce_payouts_completed_total",
			Help: "Completed payouts",
		}),
		PayoutAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taponce_payouts_rupees_total",
			Help: "Amount paid out to agents",
		}),
		AgentApplications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taponce_agent_applications_total",
			Help: "Agent applications received",
		}),
		BalanceDrift: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taponce_agent_balance_drift_rupees",
			Help: "Stored minus derived available balance, per drifting agent",
		}, []string{"referral_code"}),
		BalanceAuditRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taponce_balance_audit_runs_total",
			Help: "Balance audit runs by result",
		}, []string{"result"}),
		IdempotentConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taponce_idempotency_conflicts_total",
			Help: "Order submissions rejected as Idempotency-Key replays",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.OrdersSubmitted, m.OrderTransitions,
		m.CommissionCredited, m.CommissionReversed,
		m.PayoutsCompleted, m.PayoutAmount,
		m.AgentApplications,
		m.BalanceDrift, m.BalanceAuditRuns,
		m.IdempotentConflicts,
	)
	return m
}

// ObserveHTTP records one finished request. route is the matched pattern,
// not the raw path, to bound label cardinality.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the registry, for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordBalanceDrift publishes an agent's drift. Consistent agents are
// removed from the gauge so it only lists the ones that need attention.
func (m *Metrics) RecordBalanceDrift(referralCode string, drift float64) {
	if drift == 0 {
		m.BalanceDrift.DeleteLabelValues(referralCode)
		return
	}
	m.BalanceDrift.WithLabelValues(referralCode).Set(drift)
}

// RecordAuditRun counts one audit pass by result ("ok" or "error")
func (m *Metrics) RecordAuditRun(result string) {
	m.BalanceAuditRuns.WithLabelValues(result).Inc()
}

// RecordIdempotentConflict counts one replayed submission
func (m *Metrics) RecordIdempotentConflict() {
	m.IdempotentConflicts.Inc()
}

// RecordOrderSubmitted counts a new order by channel ("agent" or "direct")
func (m *Metrics) RecordOrderSubmitted(channel string) {
	m.OrdersSubmitted.WithLabelValues(channel).Inc()
}

// RecordTransition counts a status move and the commission it credited or
// reversed. A negative delta is a reversal.
func (m *Metrics) RecordTransition(to string, commissionDelta float64) {
	m.OrderTransitions.WithLabelValues(to).Inc()
	switch {
	case commissionDelta > 0:
		m.CommissionCredited.Add(commissionDelta)
	case commissionDelta < 0:
		m.CommissionReversed.Add(-commissionDelta)
	}
}

// RecordAgentApplication counts an agent sign-up
func (m *Metrics) RecordAgentApplication() {
	m.AgentApplications.Inc()
}

// RecordPayout counts a completed payout and its amount
func (m *Metrics) RecordPayout(amount float64) {
	m.PayoutsCompleted.Inc()
	m.PayoutAmount.Add(amount)
}
