// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/terraquest/terraquest-backend/internal/engine"
)

// Server modes.
const (
	ModeDemo       = "demo"       // in-memory sqlite seeded from the embedded catalog
	ModePersistent = "persistent" // postgres + redis
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Community CommunityConfig `mapstructure:"community"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	Mode        string `mapstructure:"mode"`
}

// DatabaseConfig contains database connection settings for PostgreSQL and Redis.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig contains Redis cache connection and pool settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// AuthConfig contains token issuing settings.
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

// TokenTTL returns the token lifetime, defaulting to 24 hours.
func (a *AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// EngineConfig tunes the gamification rules.
type EngineConfig struct {
	LowCarbonThreshold   int    `mapstructure:"low_carbon_threshold"`
	DuplicateRedemptions string `mapstructure:"duplicate_redemptions"` // allow | reject
	LeaderboardCacheTTL  int    `mapstructure:"leaderboard_cache_ttl"` // seconds
}

// RedemptionPolicy returns the configured duplicate-redemption policy,
// defaulting to allow (the historical behavior).
func (e *EngineConfig) RedemptionPolicy() engine.RedemptionPolicy {
	if e.DuplicateRedemptions == "" {
		return engine.RedemptionAllowDuplicates
	}
	return engine.RedemptionPolicy(e.DuplicateRedemptions)
}

// CommunityConfig contains community webhook notification settings.
type CommunityConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
	Enabled    bool   `mapstructure:"enabled"`
}

// MetricsConfig contains metrics exporter settings.
type MetricsConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig contains Prometheus metrics exporter settings.
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/terraquest/")
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", ModeDemo)
	v.SetDefault("engine.low_carbon_threshold", engine.DefaultLowCarbonThreshold)
	v.SetDefault("engine.duplicate_redemptions", string(engine.RedemptionAllowDuplicates))
	v.SetDefault("engine.leaderboard_cache_ttl", 30)
	v.SetDefault("auth.token_ttl_minutes", 1440)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("metrics.prometheus.path", "/metrics")

	// Bind specific environment variables (explicit bindings for 12-factor app compliance)
	// Server configuration
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")
	_ = v.BindEnv("server.mode", "SERVER_MODE")

	// PostgreSQL configuration
	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")
	_ = v.BindEnv("database.postgres.max_open_conns", "POSTGRES_MAX_OPEN_CONNS")
	_ = v.BindEnv("database.postgres.max_idle_conns", "POSTGRES_MAX_IDLE_CONNS")
	_ = v.BindEnv("database.postgres.conn_max_lifetime", "POSTGRES_CONN_MAX_LIFETIME")

	// Redis configuration
	_ = v.BindEnv("database.redis.host", "REDIS_HOST")
	_ = v.BindEnv("database.redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.redis.db", "REDIS_DB")
	_ = v.BindEnv("database.redis.pool_size", "REDIS_POOL_SIZE")

	// Auth configuration
	_ = v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("auth.token_ttl_minutes", "AUTH_TOKEN_TTL_MINUTES")

	// Engine configuration
	_ = v.BindEnv("engine.low_carbon_threshold", "ENGINE_LOW_CARBON_THRESHOLD")
	_ = v.BindEnv("engine.duplicate_redemptions", "ENGINE_DUPLICATE_REDEMPTIONS")
	_ = v.BindEnv("engine.leaderboard_cache_ttl", "ENGINE_LEADERBOARD_CACHE_TTL")

	// Community webhook configuration
	_ = v.BindEnv("community.webhook_url", "COMMUNITY_WEBHOOK_URL")
	_ = v.BindEnv("community.channel", "COMMUNITY_CHANNEL")
	_ = v.BindEnv("community.enabled", "COMMUNITY_ENABLED")

	// Logging configuration
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")

	if err := v.ReadInConfig(); err != nil {
		// Demo mode runs fine on defaults alone; only a malformed file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case ModeDemo:
	case ModePersistent:
		if c.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required in persistent mode")
		}
		if c.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required in persistent mode")
		}
		if c.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required in persistent mode")
		}
		if c.Database.Redis.Host == "" {
			return fmt.Errorf("database.redis.host is required in persistent mode")
		}
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required in persistent mode")
		}
	default:
		return fmt.Errorf("server.mode must be %q or %q, got %q", ModeDemo, ModePersistent, c.Server.Mode)
	}

	if !c.Engine.RedemptionPolicy().Valid() {
		return fmt.Errorf("engine.duplicate_redemptions must be allow or reject, got %q", c.Engine.DuplicateRedemptions)
	}
	if c.Engine.LowCarbonThreshold < 0 {
		return fmt.Errorf("engine.low_carbon_threshold must not be negative")
	}

	return nil
}

// LeaderboardCacheTTL returns the leaderboard cache lifetime.
func (c *Config) LeaderboardCacheTTL() time.Duration {
	if c.Engine.LeaderboardCacheTTL <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Engine.LeaderboardCacheTTL) * time.Second
}
