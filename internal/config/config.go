// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	SQLiteDSN         string        `mapstructure:"SQLITE_DSN"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Sessions
	SessionCookieName    string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionMaxActive     int           `mapstructure:"SESSION_MAX_ACTIVE"`
	SessionIdleTimeout   time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT_MINUTES"`
	SessionSweepSchedule string        `mapstructure:"SESSION_SWEEP_SCHEDULE"`

	// Contact form
	ContactSubmitDelay time.Duration `mapstructure:"CONTACT_SUBMIT_DELAY_MS"`

	// Account profile
	ProfileSavedNotice time.Duration `mapstructure:"PROFILE_SAVED_NOTICE_MS"`

	// Elasticsearch Configuration (empty URL disables catalog export)
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`
	CatalogIndexName string `mapstructure:"CATALOG_INDEX_NAME"`

	// Media
	MediaRoot         string        `mapstructure:"MEDIA_ROOT"`
	ImageFallbackURL  string        `mapstructure:"IMAGE_FALLBACK_URL"`
	ImageCheckTimeout time.Duration `mapstructure:"IMAGE_CHECK_TIMEOUT_SECONDS"`

	// Hosts the image check may reach even on internal addresses, comma separated.
	ImageCheckAllowedHosts []string `mapstructure:"-"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_DSN", "file:portal?mode=memory&cache=shared")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "university_portal_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("SESSION_COOKIE_NAME", "portal_session")
	v.SetDefault("SESSION_MAX_ACTIVE", 10000)
	v.SetDefault("SESSION_IDLE_TIMEOUT_MINUTES", 30)
	v.SetDefault("SESSION_SWEEP_SCHEDULE", "@every 5m")

	v.SetDefault("CONTACT_SUBMIT_DELAY_MS", 1200)
	v.SetDefault("PROFILE_SAVED_NOTICE_MS", 3000)

	v.SetDefault("ELASTICSEARCH_URL", "")
	v.SetDefault("CATALOG_INDEX_NAME", "portal_catalog")

	v.SetDefault("MEDIA_ROOT", "./static")
	v.SetDefault("IMAGE_FALLBACK_URL", "/static/img/placeholder.svg")
	v.SetDefault("IMAGE_CHECK_TIMEOUT_SECONDS", 3)
	v.SetDefault("IMAGE_CHECK_ALLOWED_HOSTS", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.SessionIdleTimeout = time.Duration(v.GetInt("SESSION_IDLE_TIMEOUT_MINUTES")) * time.Minute
	cfg.ContactSubmitDelay = time.Duration(v.GetInt("CONTACT_SUBMIT_DELAY_MS")) * time.Millisecond
	cfg.ProfileSavedNotice = time.Duration(v.GetInt("PROFILE_SAVED_NOTICE_MS")) * time.Millisecond
	cfg.ImageCheckTimeout = time.Duration(v.GetInt("IMAGE_CHECK_TIMEOUT_SECONDS")) * time.Second
	cfg.ImageCheckAllowedHosts = splitList(v.GetString("IMAGE_CHECK_ALLOWED_HOSTS"))

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver == DriverPostgres {
		cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)
	} else {
		cfg.DBSource = cfg.SQLiteDSN
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validate rejects settings the server cannot start with.
func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected %q or %q)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if c.SessionMaxActive <= 0 {
		return fmt.Errorf("SESSION_MAX_ACTIVE must be positive, got %d", c.SessionMaxActive)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT_MINUTES must be positive")
	}
	if c.ContactSubmitDelay < 0 {
		return fmt.Errorf("CONTACT_SUBMIT_DELAY_MS cannot be negative")
	}
	if c.ProfileSavedNotice < 0 {
		return fmt.Errorf("PROFILE_SAVED_NOTICE_MS cannot be negative")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME cannot be empty")
	}
	return nil
}
