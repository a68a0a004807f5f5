package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{Enabled: false}, "test", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartServiceSpan(context.Background(), "order", "submit", "channel", "agent", "sale", 800)
	assert.NotEmpty(t, TraceID(ctx))
	RecordError(span, errors.New("below msp"))
	RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "order.submit", spans[0].Name())
	assert.Len(t, spans[0].Attributes(), 2)
	assert.Len(t, spans[0].Events(), 1)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", TraceID(context.Background()))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTP("GET", "/api/orders/track", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)
	m.OrdersSubmitted.WithLabelValues("agent").Inc()
	m.BalanceDrift.WithLabelValues("TAPX1Y2Z3").Set(-50)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/orders/track", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersSubmitted.WithLabelValues("agent")))
	assert.Equal(t, -50.0, testutil.ToFloat64(m.BalanceDrift.WithLabelValues("TAPX1Y2Z3")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taponce_orders_submitted_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewMetrics_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestMetrics_BalanceAudit(t *testing.T) {
	m := NewMetrics()

	m.RecordBalanceDrift("TAPAAA111", 25)
	m.RecordBalanceDrift("TAPBBB222", 10)
	m.RecordBalanceDrift("TAPBBB222", 0)
	m.RecordAuditRun("ok")
	m.RecordIdempotentConflict()

	assert.Equal(t, 1, testutil.CollectAndCount(m.BalanceDrift))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.BalanceDrift.WithLabelValues("TAPAAA111")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BalanceAuditRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdempotentConflicts))
}

func TestLoggerProvider_DisabledKeepsLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	for _, cfg := range []config.TelemetryConfig{
		{Enabled: false, LogsEnabled: true},
		{Enabled: true, LogsEnabled: false},
	} {
		lp, err := NewLoggerProvider(context.Background(), cfg, "test", base)
		require.NoError(t, err)
		assert.False(t, lp.IsEnabled())
		assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
		assert.NoError(t, lp.Shutdown(context.Background()))
	}
	assert.Zero(t, logs.Len())
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	log := zap.New(filtered).With(zap.String("order_number", "TO-2026-00001"))

	log.Info("order approved")
	log.Warn("balance drift")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "balance drift", entry.Message)
	assert.Equal(t, "TO-2026-00001", entry.ContextMap()["order_number"])
}
