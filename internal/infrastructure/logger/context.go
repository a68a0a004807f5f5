package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	roleKey      contextKey = "role"
)

// WithContext returns a new context carrying the logger
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores the request id in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithPrincipal stores the authenticated user id and role in ctx
func WithPrincipal(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetRequestID returns the request id stored in ctx
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetUserID returns the user id stored in ctx
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// GetTraceID returns the trace id of the active span, or ""
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// L returns the context logger enriched with request, principal and trace fields.
//
//	logger.L(ctx).Info("order approved", zap.String("order_number", o.OrderNumber))
func L(ctx context.Context) *zap.Logger {
	return Enrich(ctx, FromContext(ctx))
}

// Enrich adds the request, principal and trace fields found in ctx to l
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	fields := make([]zap.Field, 0, 5)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetUserID(ctx); id != "" {
		fields = append(fields, zap.String("user_id", id))
	}
	if role, _ := ctx.Value(roleKey).(string); role != "" {
		fields = append(fields, zap.String("role", role))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
