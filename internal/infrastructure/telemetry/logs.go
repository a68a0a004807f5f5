package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/taponce/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider exports zap records over OTLP. provider is nil when log
// export is off.
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
	logger   *zap.Logger
	config   config.TelemetryConfig
}

// NewLoggerProvider starts an OTLP log exporter when both telemetry and log
// export are enabled.
func NewLoggerProvider(ctx context.Context, cfg config.TelemetryConfig, version string, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{logger: logger, config: cfg}
	if !cfg.Enabled || !cfg.LogsEnabled {
		return lp, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.provider)

	logger.Info("OpenTelemetry LoggerProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
	)
	return lp, nil
}

// IsEnabled reports whether records are exported
func (lp *LoggerProvider) IsEnabled() bool {
	return lp.provider != nil
}

// Bridge tees logger into the collector at minLevel and above. It returns
// logger unchanged when export is off.
func (lp *LoggerProvider) Bridge(logger *zap.Logger, minLevel zapcore.Level) *zap.Logger {
	if lp.provider == nil {
		return logger
	}
	core := &levelFilterCore{
		Core:     otelzap.NewCore(lp.config.ServiceName, otelzap.WithLoggerProvider(lp.provider)),
		minLevel: minLevel,
	}
	return logger.WithOptions(zap.WrapCore(func(base zapcore.Core) zapcore.Core {
		return zapcore.NewTee(base, core)
	}))
}

// Shutdown flushes pending records
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := lp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown logger provider: %w", err)
	}
	return nil
}

// levelFilterCore adds a minimum level to the otelzap core, which has none.
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
