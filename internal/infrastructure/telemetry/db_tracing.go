package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartKey contextKey = "taponce_query_start"

// RegisterDBTracing installs otelgorm on db and marks spans of queries
// slower than slowThreshold. Query variables are never recorded.
func RegisterDBTracing(db *gorm.DB, slowThreshold time.Duration, logger *zap.Logger) error {
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSlowQuery(tx, slowThreshold) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("taponce:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("taponce:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("taponce:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("taponce:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("taponce:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("taponce:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("taponce:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("taponce:after_delete", after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("taponce:before_row", before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("taponce:after_row", after); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", slowThreshold))
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
	}
	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
