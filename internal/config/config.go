// Package config defines service configuration and its loading.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and environment variables on top.
// - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/dailyword/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone is the IANA zone whose civil date defines "today".
	Timezone string `koanf:"timezone"`

	// CooldownDays keeps a used word out of the preferred pool.
	CooldownDays int `koanf:"cooldown_days"`

	// UsageShare scales the per-word usage cap with total corpus usage.
	UsageShare float64 `koanf:"usage_share"`

	// FallbackPrimary and FallbackSecondary are served when nothing can be assigned.
	FallbackPrimary   string `koanf:"fallback_primary"`
	FallbackSecondary string `koanf:"fallback_secondary"`

	// StoreDriver selects the word store: memory, sqlite, postgres or mongo.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the driver specific connection string.
	StoreDSN string `koanf:"store_dsn"`

	// StoreTimeoutMS bounds every store call; 0 disables the bound.
	StoreTimeoutMS int `koanf:"store_timeout_ms"`

	// StoreMaxOpenConns and StoreMaxIdleConns size the SQL pool; 0 keeps the driver default.
	StoreMaxOpenConns int `koanf:"store_max_open_conns"`
	StoreMaxIdleConns int `koanf:"store_max_idle_conns"`

	// StoreConnLifetimeS bounds SQL connection reuse in seconds; 0 keeps the default.
	StoreConnLifetimeS int `koanf:"store_conn_lifetime_s"`

	// MongoDatabase names the database used by the mongo driver.
	MongoDatabase string `koanf:"mongo_database"`

	// SeedFile is a YAML word list upserted into the store on start.
	SeedFile string `koanf:"seed_file"`

	// MemoRedisURL enables the durable memo when set.
	MemoRedisURL string `koanf:"memo_redis_url"`

	// AllowedOrigins is a comma separated CORS allow list.
	AllowedOrigins string `koanf:"allowed_origins"`
}

var knownDrivers = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"memory":   true,
	"sqlite":   true,
	"postgres": true,
	"mongo":    true,
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		Timezone:          "Europe/Madrid",
		CooldownDays:      30,
		UsageShare:        0.3,
		FallbackPrimary:   "EXPLORE",
		FallbackSecondary: "explorar",
		StoreDriver:       "memory",
		StoreTimeoutMS:    5000,
		MongoDatabase:     "dailyword",
		AllowedOrigins:    "*",
	}
}

// StoreTimeout returns StoreTimeoutMS as a duration.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMS) * time.Millisecond
}

// Store returns the repository settings.
func (c *Config) Store() repository.Config {
	return repository.Config{
		Driver:          c.StoreDriver,
		DSN:             c.StoreDSN,
		MongoDatabase:   c.MongoDatabase,
		Timeout:         c.StoreTimeout(),
		MaxOpenConns:    c.StoreMaxOpenConns,
		MaxIdleConns:    c.StoreMaxIdleConns,
		ConnMaxLifetime: time.Duration(c.StoreConnLifetimeS) * time.Second,
	}
}

// Origins splits AllowedOrigins, dropping blanks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate checks the invariants the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.Timezone) == "":
		return fmt.Errorf("%w: timezone must not be empty", ErrInvalidConfig)
	case !knownDrivers[c.StoreDriver]:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver != "memory" && c.StoreDriver != "sqlite" && c.StoreDSN == "":
		return fmt.Errorf("%w: store_dsn is required for %s", ErrInvalidConfig, c.StoreDriver)
	case c.CooldownDays < 0:
		return fmt.Errorf("%w: cooldown_days must not be negative", ErrInvalidConfig)
	case c.UsageShare <= 0 || c.UsageShare > 1:
		return fmt.Errorf("%w: usage_share must be in (0, 1]", ErrInvalidConfig)
	case c.StoreTimeoutMS < 0:
		return fmt.Errorf("%w: store_timeout_ms must not be negative", ErrInvalidConfig)
	case c.StoreMaxOpenConns < 0 || c.StoreMaxIdleConns < 0 || c.StoreConnLifetimeS < 0:
		return fmt.Errorf("%w: store pool settings must not be negative", ErrInvalidConfig)
	}
	return nil
}
