// Package config loads process configuration from flags, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// EnvPrefix prefixes every environment variable, e.g. UNIFIND_ADDR.
const EnvPrefix = "UNIFIND"

type Config struct {
	Env        string
	Addr       string
	APIBaseURL string
	DBPath     string

	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig

	GatewayTimeout time.Duration
	ListLimit      int
	Location       *time.Location
	ConfirmTTL     time.Duration
	MetricsEnabled bool
}

type SessionConfig struct {
	Backend      string
	TTL          time.Duration
	CookieSecure bool

	// VerifyInterval bounds how often a stored sign-in is re-checked.
	VerifyInterval time.Duration
	// IdleTimeout drops loaded collections of untouched sessions.
	IdleTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads configuration. Flags that were set explicitly win over the
// environment, which wins over .env, which wins over defaults.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	cfg := &Config{
		Env:        v.GetString("env"),
		Addr:       v.GetString("addr"),
		APIBaseURL: v.GetString("api_base_url"),
		DBPath:     v.GetString("db_path"),
		Session: SessionConfig{
			Backend:      strings.ToLower(v.GetString("session_backend")),
			TTL:          v.GetDuration("session_ttl"),
			CookieSecure: v.GetBool("cookie_secure"),

			VerifyInterval: v.GetDuration("verify_interval"),
			IdleTimeout:    v.GetDuration("idle_timeout"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			File:   v.GetString("log_file"),
		},
		GatewayTimeout: v.GetDuration("gateway_timeout"),
		ListLimit:      v.GetInt("list_limit"),
		ConfirmTTL:     v.GetDuration("confirm_ttl"),
		MetricsEnabled: v.GetBool("metrics_enabled"),
	}

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("addr", ":8080")
	v.SetDefault("api_base_url", "http://localhost:3000")
	v.SetDefault("db_path", "unifind.sqlite3")

	v.SetDefault("session_backend", BackendSQLite)
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("verify_interval", "1m")
	v.SetDefault("idle_timeout", "30m")

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "")

	v.SetDefault("gateway_timeout", "15s")
	v.SetDefault("list_limit", 100)
	v.SetDefault("timezone", "Local")
	v.SetDefault("confirm_ttl", "5m")
	v.SetDefault("metrics_enabled", true)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute URL, got %q", c.APIBaseURL)
	}
	switch c.Session.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("session_backend must be %q or %q, got %q", BackendSQLite, BackendRedis, c.Session.Backend)
	}
	if c.Session.Backend == BackendRedis && c.Redis.Addr == "" {
		return errors.New("redis_addr is required for the redis session backend")
	}
	if c.ListLimit <= 0 {
		return fmt.Errorf("list_limit must be positive, got %d", c.ListLimit)
	}
	if c.GatewayTimeout <= 0 {
		return errors.New("gateway_timeout must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if c.Session.VerifyInterval < 0 || c.Session.IdleTimeout < 0 {
		return errors.New("verify_interval and idle_timeout cannot be negative")
	}
	if c.ConfirmTTL <= 0 {
		return errors.New("confirm_ttl must be positive")
	}
	return nil
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
