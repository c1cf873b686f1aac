package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/aretw0/wanderbuddy/internal/logging"
	httpadapter "github.com/aretw0/wanderbuddy/pkg/adapters/http"
	"github.com/aretw0/wanderbuddy/pkg/persistence/middleware"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "wanderbuddy.yaml"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the CLI configuration: a YAML file overlaid with environment
// variables. Durations are Go duration strings ("90s").
type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"WANDERBUDDY_API_URL"`
	Timeout time.Duration `yaml:"timeout" env:"WANDERBUDDY_API_TIMEOUT"`
	// RateLimit is in requests per second; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit" env:"WANDERBUDDY_API_RATE_LIMIT"`
	Burst     int     `yaml:"burst" env:"WANDERBUDDY_API_BURST"`
}

type StoreConfig struct {
	Kind  string      `yaml:"kind" env:"WANDERBUDDY_STORE"`
	Path  string      `yaml:"path" env:"WANDERBUDDY_STORE_PATH"`
	Redis RedisConfig `yaml:"redis"`
	// EncryptionKey enables at-rest encryption of the session record.
	EncryptionKey string   `yaml:"encryption_key" env:"WANDERBUDDY_ENCRYPTION_KEY"`
	FallbackKeys  []string `yaml:"fallback_keys" env:"WANDERBUDDY_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"WANDERBUDDY_REDIS_ADDR"`
	Password string        `yaml:"password" env:"WANDERBUDDY_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"WANDERBUDDY_REDIS_DB"`
	Prefix   string        `yaml:"prefix" env:"WANDERBUDDY_REDIS_PREFIX"`
	TTL      time.Duration `yaml:"ttl" env:"WANDERBUDDY_REDIS_TTL"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"WANDERBUDDY_LOG_LEVEL"`
}

type MetricsConfig struct {
	// Addr serves /metrics while a command runs; empty disables it.
	Addr string `yaml:"addr" env:"WANDERBUDDY_METRICS_ADDR"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: httpadapter.DefaultBaseURL,
			Timeout: httpadapter.DefaultTimeout,
			Burst:   1,
		},
		Store: StoreConfig{
			Kind: StoreFile,
			Path: ".wanderbuddy/store",
			Redis: RedisConfig{
				Addr:   "127.0.0.1:6379",
				Prefix: "wanderbuddy:",
			},
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error; an unknown YAML key is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to open config: %w", err)
		default:
			defer f.Close()
			dec := yaml.NewDecoder(f)
			dec.KnownFields(true)
			if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q must be an http(s) URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit must not be negative"))
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		errs = append(errs, fmt.Errorf("api.burst must be at least 1 when rate_limit is set"))
	}

	switch c.Store.Kind {
	case StoreMemory:
	case StoreFile:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for the file store"))
		}
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, fmt.Errorf("store.redis.addr is required for the redis store"))
		}
		if c.Store.Redis.TTL < 0 {
			errs = append(errs, fmt.Errorf("store.redis.ttl must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.kind %q must be one of memory, file, redis", c.Store.Kind))
	}

	if c.Store.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Store.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("store.encryption_key: %w", err))
		}
	} else if len(c.Store.FallbackKeys) > 0 {
		errs = append(errs, fmt.Errorf("store.fallback_keys needs store.encryption_key"))
	}
	for i, k := range c.Store.FallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			errs = append(errs, fmt.Errorf("store.fallback_keys[%d]: %w", i, err))
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// EncryptionConfig decodes the configured keys. ok is false when
// encryption is off.
func (c *Config) EncryptionConfig() (cfg middleware.EncryptionConfig, ok bool, err error) {
	if c.Store.EncryptionKey == "" {
		return middleware.EncryptionConfig{}, false, nil
	}
	active, err := middleware.ParseKey(c.Store.EncryptionKey)
	if err != nil {
		return middleware.EncryptionConfig{}, false, err
	}
	cfg.ActiveKey = active
	for _, k := range c.Store.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return middleware.EncryptionConfig{}, false, err
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return cfg, true, nil
}
