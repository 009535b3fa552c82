// Package config loads runtime settings from a config file, FINMARKET_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "FINMARKET"

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

type Config struct {
	HTTP        HTTPConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
	Storage     StorageConfig
	Catalog     CatalogConfig
	Application ApplicationConfig
	Logging     LoggingConfig
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// RateLimitConfig sizes the per-client token bucket on the application
// endpoints. Capacity requests are allowed per Refill window.
type RateLimitConfig struct {
	Capacity int
	Refill   time.Duration
}

// CacheConfig selects the calculation cache. An empty RedisAddr keeps the
// cache in process.
type CacheConfig struct {
	RedisAddr string
	TTL       time.Duration
}

type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// CatalogConfig optionally replaces the embedded catalog with a YAML file.
type CatalogConfig struct {
	Fixtures string
}

// ApplicationConfig times the application drafts. A draft is dropped
// after DraftTTL without changes.
type ApplicationConfig struct {
	RedirectDelay time.Duration
	DraftTTL      time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("rate_limit.capacity", 5)
	v.SetDefault("rate_limit.refill", time.Minute)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.sqlite_path", "finmarket.db")

	v.SetDefault("catalog.fixtures", "")

	v.SetDefault("application.redirect_delay", 2*time.Second)
	v.SetDefault("application.draft_ttl", 30*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// New returns a viper instance with defaults and environment binding.
// A non-empty file is read as the config file; otherwise ./finmarket.yaml
// is used when present.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("finmarket")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Addr:            v.GetString("http.addr"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		RateLimit: RateLimitConfig{
			Capacity: v.GetInt("rate_limit.capacity"),
			Refill:   v.GetDuration("rate_limit.refill"),
		},
		Cache: CacheConfig{
			RedisAddr: v.GetString("cache.redis_addr"),
			TTL:       v.GetDuration("cache.ttl"),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(v.GetString("storage.driver")),
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Catalog: CatalogConfig{
			Fixtures: v.GetString("catalog.fixtures"),
		},
		Application: ApplicationConfig{
			RedirectDelay: v.GetDuration("application.redirect_delay"),
			DraftTTL:      v.GetDuration("application.draft_ttl"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.RateLimit.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.capacity must be positive, got %d", c.RateLimit.Capacity))
	}
	if c.RateLimit.Refill <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.refill must be positive, got %s", c.RateLimit.Refill))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL))
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	if c.Application.RedirectDelay < 0 {
		errs = append(errs, fmt.Errorf("application.redirect_delay must not be negative, got %s", c.Application.RedirectDelay))
	}
	if c.Application.DraftTTL < 0 {
		errs = append(errs, fmt.Errorf("application.draft_ttl must not be negative, got %s", c.Application.DraftTTL))
	}
	return errors.Join(errs...)
}
