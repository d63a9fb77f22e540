package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog sources
const (
	SourceAPI = "api"
	SourceSQL = "sql"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Tracking  TrackingConfig  `mapstructure:"tracking"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Store     StoreConfig     `mapstructure:"store"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Debug          bool     `mapstructure:"debug"`
}

// CatalogConfig selects where products and variations come from
type CatalogConfig struct {
	Source            string        `mapstructure:"source"` // "api" or "sql"
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// DatabaseConfig holds the SQL catalog connection
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // "postgres" or "mysql"
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	ProductTTL    time.Duration `mapstructure:"product_ttl"`
	CartTTL       time.Duration `mapstructure:"cart_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// AdminConfig holds the back-office account
type AdminConfig struct {
	Username     string        `mapstructure:"username"`
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

// TrackingConfig holds server-side conversion API credentials.
// A tracker is enabled when its credentials are set.
type TrackingConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	GA4MeasurementID  string        `mapstructure:"ga4_measurement_id"`
	GA4APISecret      string        `mapstructure:"ga4_api_secret"`
	MetaPixelID       string        `mapstructure:"meta_pixel_id"`
	MetaAccessToken   string        `mapstructure:"meta_access_token"`
	MetaTestEventCode string        `mapstructure:"meta_test_event_code"`
}

// GA4Enabled reports whether Measurement Protocol credentials are set
func (t TrackingConfig) GA4Enabled() bool {
	return t.GA4MeasurementID != "" && t.GA4APISecret != ""
}

// MetaEnabled reports whether Conversions API credentials are set
func (t TrackingConfig) MetaEnabled() bool {
	return t.MetaPixelID != "" && t.MetaAccessToken != ""
}

// I18nConfig holds localization settings
type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

// StoreConfig holds storefront display settings
type StoreConfig struct {
	Currency string `mapstructure:"currency"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/beanery/")

	// Environment variables: BEANERY_SERVER_PORT -> server.port
	v.SetEnvPrefix("BEANERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.debug", false)

	// Catalog defaults
	v.SetDefault("catalog.source", SourceAPI)
	v.SetDefault("catalog.base_url", "http://localhost:3000")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.requests_per_second", 20)
	v.SetDefault("catalog.burst", 40)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)

	// Cache defaults
	v.SetDefault("cache.product_ttl", "5m")
	v.SetDefault("cache.cart_ttl", "72h")
	v.SetDefault("cache.sweep_interval", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 30)

	// Admin defaults
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.token_ttl", "12h")

	// Tracking defaults
	v.SetDefault("tracking.timeout", "5s")
	v.SetDefault("tracking.ga4_measurement_id", "")
	v.SetDefault("tracking.ga4_api_secret", "")
	v.SetDefault("tracking.meta_pixel_id", "")
	v.SetDefault("tracking.meta_access_token", "")
	v.SetDefault("tracking.meta_test_event_code", "")

	v.SetDefault("i18n.default_language", "ar")
	v.SetDefault("store.currency", "SAR")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case SourceAPI:
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base URL is required (set BEANERY_CATALOG_BASE_URL)")
		}
	case SourceSQL:
		switch strings.ToLower(config.Database.Driver) {
		case "postgres", "pgx", "mysql":
		default:
			return fmt.Errorf("database driver must be 'postgres' or 'mysql', got: %s", config.Database.Driver)
		}
		if config.Database.DSN == "" {
			return fmt.Errorf("database DSN is required when catalog source is 'sql' (set BEANERY_DATABASE_DSN)")
		}
	default:
		return fmt.Errorf("catalog source must be 'api' or 'sql', got: %s", config.Catalog.Source)
	}

	if config.Admin.PasswordHash != "" && config.Admin.JWTSecret == "" {
		return fmt.Errorf("admin JWT secret is required when an admin password is set (set BEANERY_ADMIN_JWT_SECRET)")
	}

	if lang := config.I18n.DefaultLanguage; lang != "en" && lang != "ar" {
		return fmt.Errorf("default language must be 'en' or 'ar', got: %s", lang)
	}

	if len(config.Store.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter ISO code, got: %s", config.Store.Currency)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
