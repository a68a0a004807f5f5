package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "taponce-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, 72*time.Hour, cfg.App.ClaimTokenTTL)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "taponce", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 72*time.Hour, cfg.Draft.TTL)
		assert.Equal(t, "0 3 * * *", cfg.Jobs.BalanceAuditCron)
		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.False(t, cfg.Telemetry.OTLPMetricsEnabled)
		assert.Equal(t, 60*time.Second, cfg.Telemetry.MetricsExportInterval)
		assert.False(t, cfg.Printing.ProofEnabled)
		assert.False(t, cfg.Swagger.Enabled)
	})

	t.Run("commission policy defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Commission.BaseAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, cfg.Commission.BonusRate.Equal(decimal.RequireFromString("0.5")))
		assert.True(t, cfg.Commission.OverrideRate.Equal(decimal.RequireFromString("0.02")))
		assert.False(t, cfg.Commission.CreditOverride)
	})

	t.Run("loads values from environment variables with TAPONCE prefix", func(t *testing.T) {
		t.Setenv("TAPONCE_APP_NAME", "test-app")
		t.Setenv("TAPONCE_APP_PORT", "9000")
		t.Setenv("TAPONCE_APP_PUBLIC_URL", "https://taponce.in/")
		t.Setenv("TAPONCE_DATABASE_HOST", "testdb.local")
		t.Setenv("TAPONCE_DATABASE_PORT", "5433")
		t.Setenv("TAPONCE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("TAPONCE_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("TAPONCE_COMMISSION_BASE_AMOUNT", "150")
		t.Setenv("TAPONCE_COMMISSION_CREDIT_OVERRIDE", "true")
		t.Setenv("TAPONCE_DRAFT_TTL", "24h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "https://taponce.in", cfg.App.PublicURL)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Commission.BaseAmount.Equal(decimal.NewFromInt(150)))
		assert.True(t, cfg.Commission.CreditOverride)
		assert.Equal(t, 24*time.Hour, cfg.Draft.TTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("TAPONCE_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("TAPONCE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects a non-numeric commission figure", func(t *testing.T) {
		t.Setenv("TAPONCE_COMMISSION_BONUS_RATE", "half")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "commission.bonus_rate")
	})

	t.Run("rejects a rate above one", func(t *testing.T) {
		t.Setenv("TAPONCE_COMMISSION_OVERRIDE_RATE", "1.5")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("production requires a long JWT secret", func(t *testing.T) {
		t.Setenv("TAPONCE_APP_ENV", "production")
		t.Setenv("TAPONCE_DATABASE_PASSWORD", "s3cret-db")
		t.Setenv("TAPONCE_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("production refuses the default database password", func(t *testing.T) {
		t.Setenv("TAPONCE_APP_ENV", "production")
		t.Setenv("TAPONCE_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("TAPONCE_DATABASE_PASSWORD", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("valid production config loads", func(t *testing.T) {
		t.Setenv("TAPONCE_APP_ENV", "production")
		t.Setenv("TAPONCE_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("TAPONCE_DATABASE_PASSWORD", "s3cret-db")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("production refuses open swagger docs", func(t *testing.T) {
		t.Setenv("TAPONCE_APP_ENV", "production")
		t.Setenv("TAPONCE_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("TAPONCE_DATABASE_PASSWORD", "s3cret-db")
		t.Setenv("TAPONCE_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger")
	})

	t.Run("production serves swagger docs behind authentication", func(t *testing.T) {
		t.Setenv("TAPONCE_APP_ENV", "production")
		t.Setenv("TAPONCE_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("TAPONCE_DATABASE_PASSWORD", "s3cret-db")
		t.Setenv("TAPONCE_SWAGGER_ENABLED", "true")
		t.Setenv("TAPONCE_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})

	t.Run("metric push settings", func(t *testing.T) {
		t.Setenv("TAPONCE_TELEMETRY_OTLP_METRICS_ENABLED", "true")
		t.Setenv("TAPONCE_TELEMETRY_METRICS_EXPORT_INTERVAL", "15s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.OTLPMetricsEnabled)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.MetricsExportInterval)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "taponce", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/taponce?sslmode=disable", d.DSN())
}
