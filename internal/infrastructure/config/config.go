package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	Storage    StorageConfig
	Commission CommissionConfig
	Draft      DraftConfig
	Telemetry  TelemetryConfig
	Printing   PrintingConfig
	Jobs       JobsConfig
	Swagger    SwaggerConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// PublicURL is the storefront origin used in claim links, profile URLs and QR codes.
	PublicURL string
	// APIURL is this service's external origin, used in vCard and QR links.
	APIURL string
	// ClaimTokenTTL is how long a customer claim link stays valid.
	ClaimTokenTTL time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// HTTPConfig holds HTTP server, rate limit and CORS settings
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
	MaxUploadSize   int64
}

// CommissionConfig holds the commission policy figures
type CommissionConfig struct {
	BaseAmount   decimal.Decimal
	BonusRate    decimal.Decimal
	OverrideRate decimal.Decimal
	// CreditOverride credits the recruiting agent's balance with the override on approval.
	CreditOverride bool
}

// DraftConfig holds funnel draft settings
type DraftConfig struct {
	TTL time.Duration
}

// TelemetryConfig holds OpenTelemetry and metrics configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration
	MetricsEnabled    bool
	// OTLPMetricsEnabled pushes business metrics to the collector next to
	// the Prometheus endpoint. Requires Enabled.
	OTLPMetricsEnabled    bool
	MetricsExportInterval time.Duration
	// LogsEnabled also ships zap records to the collector. Requires Enabled.
	LogsEnabled bool
}

// SwaggerConfig controls the /swagger documentation endpoint
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // IPs or CIDRs, empty allows any address
}

// PrintingConfig controls print proof rendering
type PrintingConfig struct {
	ProofEnabled bool
	ChromePath   string
	Timeout      time.Duration
}

// JobsConfig holds background job schedules
type JobsConfig struct {
	Enabled          bool
	BalanceAuditCron string
	JobTimeout       time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with TAPONCE_ prefix (e.g., TAPONCE_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("TAPONCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	commission, err := loadCommission(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:          v.GetString("app.name"),
			Env:           v.GetString("app.env"),
			Port:          v.GetString("app.port"),
			PublicURL:     v.GetString("app.public_url"),
			APIURL:        v.GetString("app.api_url"),
			ClaimTokenTTL: v.GetDuration("app.claim_token_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("server.read_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			IdleTimeout:       v.GetDuration("server.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("server.max_header_bytes"),
			MaxBodySize:       v.GetInt64("server.max_body_size"),
			RateLimitEnabled:  v.GetBool("ratelimit.enabled"),
			RateLimitRequests: v.GetInt("ratelimit.requests"),
			RateLimitWindow:   v.GetDuration("ratelimit.window"),
			RateLimitBurst:    v.GetInt("ratelimit.burst"),
			CORSAllowOrigins:  v.GetStringSlice("cors.allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("cors.allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("cors.allow_headers"),
			TrustedProxies:    v.GetStringSlice("server.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("storage.enabled"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignExpiry:   v.GetDuration("storage.presign_expiry"),
			MaxUploadSize:   v.GetInt64("storage.max_upload_size"),
		},
		Commission: commission,
		Draft: DraftConfig{
			TTL: v.GetDuration("draft.ttl"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			MetricsEnabled:    !v.IsSet("telemetry.metrics_enabled") || v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),

			OTLPMetricsEnabled:    v.GetBool("telemetry.otlp_metrics_enabled"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
		},
		Printing: PrintingConfig{
			ProofEnabled: v.GetBool("printing.proof_enabled"),
			ChromePath:   v.GetString("printing.chrome_path"),
			Timeout:      v.GetDuration("printing.timeout"),
		},
		Jobs: JobsConfig{
			Enabled:          v.GetBool("jobs.enabled"),
			BalanceAuditCron: v.GetString("jobs.balance_audit_cron"),
			JobTimeout:       v.GetDuration("jobs.job_timeout"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadCommission(v *viper.Viper) (CommissionConfig, error) {
	cfg := CommissionConfig{CreditOverride: v.GetBool("commission.credit_override")}
	fields := []struct {
		key string
		dst *decimal.Decimal
		def string
	}{
		{"commission.base_amount", &cfg.BaseAmount, "100"},
		{"commission.bonus_rate", &cfg.BonusRate, "0.5"},
		{"commission.override_rate", &cfg.OverrideRate, "0.02"},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(v.GetString(f.key))
		if raw == "" {
			raw = f.def
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return cfg, fmt.Errorf("%s must be a number: %w", f.key, err)
		}
		*f.dst = d
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "taponce-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.PublicURL == "" {
		cfg.App.PublicURL = "http://localhost:3000"
	}
	cfg.App.PublicURL = strings.TrimRight(cfg.App.PublicURL, "/")
	if cfg.App.APIURL == "" {
		cfg.App.APIURL = "http://localhost:" + cfg.App.Port
	}
	cfg.App.APIURL = strings.TrimRight(cfg.App.APIURL, "/")
	if cfg.App.ClaimTokenTTL == 0 {
		cfg.App.ClaimTokenTTL = 72 * time.Hour
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "taponce"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "taponce"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20 // 2MB, uploads go straight to S3
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 60
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 10
	}
	// An empty origin list means no cross-origin requests until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"}
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-south-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "taponce-uploads"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 15 * time.Minute
	}
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 5 << 20
	}
	if cfg.Draft.TTL == 0 {
		cfg.Draft.TTL = 72 * time.Hour
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
	if cfg.Printing.Timeout == 0 {
		cfg.Printing.Timeout = 30 * time.Second
	}
	if cfg.Jobs.BalanceAuditCron == "" {
		cfg.Jobs.BalanceAuditCron = "0 3 * * *"
	}
	if cfg.Jobs.JobTimeout == 0 {
		cfg.Jobs.JobTimeout = 10 * time.Minute
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Commission.BaseAmount.IsNegative() {
		return fmt.Errorf("commission.base_amount cannot be negative")
	}
	one := decimal.NewFromInt(1)
	if c.Commission.BonusRate.IsNegative() || c.Commission.BonusRate.GreaterThan(one) {
		return fmt.Errorf("commission.bonus_rate must be between 0 and 1")
	}
	if c.Commission.OverrideRate.IsNegative() || c.Commission.OverrideRate.GreaterThan(one) {
		return fmt.Errorf("commission.override_rate must be between 0 and 1")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" || c.Database.Password == "postgres" {
			return fmt.Errorf("database.password must be set to a non-default value in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors.allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger must be disabled, require authentication, or have an IP allow list in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}

	return nil
}

// IsProduction returns true when running with app.env=production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
