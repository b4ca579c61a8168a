package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	WSC       WSCConfig       `yaml:"wsc"`
	Migration MigrationConfig `yaml:"migration"`
}

type AppConfig struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"tarantula-log"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatabaseConfig: sin DSN se usan los repos in-memory.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DB_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DB_MAX_CONNS"           env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DB_MIN_CONNS"           env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DB_MAX_CONN_LIFETIME"   env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME"  env-default:"15m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DB_MIGRATE_ON_START"    env-default:"false"`
}

func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.DSN) != ""
}

// AuthConfig: con DevMode y sin secret, el usuario sale de X-Debug-User-ID.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"tarantula-log"`
	DevMode   bool   `yaml:"dev_mode"   env:"AUTH_DEV_MODE"   env-default:"false"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type WSCConfig struct {
	BaseURL          string        `yaml:"base_url"           env:"WSC_BASE_URL"           env-default:"https://wsc.nmbe.ch"`
	SiteURL          string        `yaml:"site_url"           env:"WSC_SITE_URL"           env-default:"https://wsc.nmbe.ch"`
	APIKey           string        `yaml:"api_key"            env:"WSC_API_KEY"`
	Timeout          time.Duration `yaml:"timeout"            env:"WSC_TIMEOUT"            env-default:"8s"`
	CacheTTL         time.Duration `yaml:"cache_ttl"          env:"WSC_CACHE_TTL"          env-default:"6h"`
	NegativeCacheTTL time.Duration `yaml:"negative_cache_ttl" env:"WSC_NEGATIVE_CACHE_TTL" env-default:"30m"`
}

type MigrationConfig struct {
	RunOnStart bool `yaml:"run_on_start" env:"MIGRATION_RUN_ON_START" env-default:"true"`
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: out of range: %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout: must be positive"))
	}

	if c.Database.Enabled() {
		if c.Database.MaxConns <= 0 {
			errs = append(errs, errors.New("database.max_conns: must be positive"))
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, errors.New("database.min_conns: must be between 0 and max_conns"))
		}
	}

	if strings.TrimSpace(c.Auth.JWTSecret) == "" && !c.Auth.DevMode {
		errs = append(errs, errors.New("auth.jwt_secret: required unless auth.dev_mode is set"))
	}
	if s := strings.TrimSpace(c.Auth.JWTSecret); s != "" && len(s) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret: must be at least 32 characters"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}

	if _, err := url.ParseRequestURI(c.WSC.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("wsc.base_url: %w", err))
	}
	if c.WSC.CacheTTL <= 0 || c.WSC.NegativeCacheTTL <= 0 {
		errs = append(errs, errors.New("wsc: cache ttls must be positive"))
	}

	return errors.Join(errs...)
}
