package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/trongtuan99/review-company/pkg/config"
)

// Config holds all configuration for the review service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"REVIEW_HTTP_PORT" envDefault:"8010"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"review"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"review_secret"`
	PostgresDB   string `env:"REVIEW_DB_NAME" envDefault:"review_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis (sweep locks)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	LikeEventGroupID   string   `env:"LIKE_EVENT_GROUP_ID" envDefault:"review-service-like-event"`
	LikeEventDLQEnable bool     `env:"LIKE_EVENT_DLQ_ENABLED" envDefault:"true"`

	// Retention windows before soft-deleted entities are purged, and how
	// often each sweep runs.
	ReviewRetentionMinutes  int `env:"REVIEW_RETENTION_MINUTES" envDefault:"60"`
	ReviewSweepMinutes      int `env:"REVIEW_SWEEP_MINUTES" envDefault:"60"`
	CompanyRetentionHours   int `env:"COMPANY_RETENTION_HOURS" envDefault:"24"`
	CompanySweepHours       int `env:"COMPANY_SWEEP_HOURS" envDefault:"24"`
	UserRetentionHours      int `env:"USER_RETENTION_HOURS" envDefault:"72"`
	UserSweepHours          int `env:"USER_SWEEP_HOURS" envDefault:"72"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load review config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	for name, v := range map[string]int{
		"REVIEW_RETENTION_MINUTES": c.ReviewRetentionMinutes,
		"REVIEW_SWEEP_MINUTES":     c.ReviewSweepMinutes,
		"COMPANY_RETENTION_HOURS":  c.CompanyRetentionHours,
		"COMPANY_SWEEP_HOURS":      c.CompanySweepHours,
		"USER_RETENTION_HOURS":     c.UserRetentionHours,
		"USER_SWEEP_HOURS":         c.UserSweepHours,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0, got %d", name, v)
		}
	}
	return nil
}

// ReviewRetention returns the retention window for soft-deleted reviews.
func (c *Config) ReviewRetention() time.Duration {
	return time.Duration(c.ReviewRetentionMinutes) * time.Minute
}

// CompanyRetention returns the retention window for soft-deleted companies.
func (c *Config) CompanyRetention() time.Duration {
	return time.Duration(c.CompanyRetentionHours) * time.Hour
}

// UserRetention returns the retention window for soft-deleted users.
func (c *Config) UserRetention() time.Duration {
	return time.Duration(c.UserRetentionHours) * time.Hour
}
