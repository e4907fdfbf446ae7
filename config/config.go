package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Engine    EngineConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig selects where catalog snapshots come from. A remote URL takes
// precedence over the local path.
type CatalogConfig struct {
	Path              string        `mapstructure:"path"`
	RemoteURL         string        `mapstructure:"remote_url"`
	RefreshInterval   time.Duration `mapstructure:"refresh_interval"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// EngineConfig holds per-relationship result limits
type EngineConfig struct {
	SimilarLimit     int `mapstructure:"similar_limit"`
	AlternativeLimit int `mapstructure:"alternative_limit"`
	UpgradeLimit     int `mapstructure:"upgrade_limit"`
	DowngradeLimit   int `mapstructure:"downgrade_limit"`
	CrossBrandLimit  int `mapstructure:"cross_brand_limit"`
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// IsRemote reports whether catalogs are fetched from a Catalog Store
func (c CatalogConfig) IsRemote() bool {
	return c.RemoteURL != ""
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/speclens/")

	// SPECLENS_CATALOG_REMOTE_URL maps to catalog.remote_url
	v.SetEnvPrefix("SPECLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.path", "data/catalog.yaml")
	v.SetDefault("catalog.remote_url", "")
	v.SetDefault("catalog.refresh_interval", "5m")
	v.SetDefault("catalog.requests_per_second", 1.0)

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Engine defaults
	v.SetDefault("engine.similar_limit", 6)
	v.SetDefault("engine.alternative_limit", 6)
	v.SetDefault("engine.upgrade_limit", 4)
	v.SetDefault("engine.downgrade_limit", 4)
	v.SetDefault("engine.cross_brand_limit", 6)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Path == "" && config.Catalog.RemoteURL == "" {
		return fmt.Errorf("catalog path or remote URL is required (set SPECLENS_CATALOG_PATH or SPECLENS_CATALOG_REMOTE_URL)")
	}

	if config.Catalog.RemoteURL != "" &&
		!strings.HasPrefix(config.Catalog.RemoteURL, "http://") &&
		!strings.HasPrefix(config.Catalog.RemoteURL, "https://") {
		return fmt.Errorf("catalog remote URL must be http(s), got: %s", config.Catalog.RemoteURL)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit per IP must not be negative, got: %d", config.RateLimit.PerIP)
	}

	limits := map[string]int{
		"similar":     config.Engine.SimilarLimit,
		"alternative": config.Engine.AlternativeLimit,
		"upgrade":     config.Engine.UpgradeLimit,
		"downgrade":   config.Engine.DowngradeLimit,
		"cross_brand": config.Engine.CrossBrandLimit,
	}
	for kind, limit := range limits {
		if limit < 0 {
			return fmt.Errorf("engine %s limit must not be negative, got: %d", kind, limit)
		}
	}

	switch config.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	return nil
}
