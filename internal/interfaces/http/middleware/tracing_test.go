package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func tracedRouter(t *testing.T, cfg TracingConfig) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	router := gin.New()
	router.Use(RequestID(), Tracing(cfg), SpanErrorMarker(), TracingAttributeInjector())
	router.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing(t *testing.T) {
	router, recorder := tracedRouter(t, DefaultTracingConfig())

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	req.Header.Set(RequestIDHeader, "trace-req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	value, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "trace-req-1", value.AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_MarksErrors(t *testing.T) {
	router, recorder := tracedRouter(t, DefaultTracingConfig())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	value, ok := spanAttr(spans[0], "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusNotFound), value.AsInt64())
}

func TestTracing_Disabled(t *testing.T) {
	router, recorder := tracedRouter(t, TracingConfig{ServiceName: "test", Enabled: false})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}
