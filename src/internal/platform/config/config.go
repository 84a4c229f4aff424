package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ===========================
// Service configuration
// ===========================

// Config is the runtime configuration of the sales service.
//
// Load order: defaults, then the YAML file (when given), then SALES_*
// environment variables.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the GORM dialect. Driver is "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LogConfig selects the logger preset. Load normalises Mode to lower case,
// with "prod" spelled out as "production".
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// Development reports whether the development presets apply. Any mode other
// than production counts, matching logger.New.
func (l LogConfig) Development() bool {
	return l.Mode != ModeProduction
}

// RedisConfig enables event fan-out over Redis pub/sub when Addr is set.
type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

// Enabled reports whether a Redis publisher should be wired.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Default returns the development defaults.
func Default() Config {
	return Config{
		HTTP:     HTTPConfig{Addr: ":8080"},
		Database: DatabaseConfig{Driver: DriverSQLite, DSN: "file:sales.db"},
		Log:      LogConfig{Mode: ModeDevelopment},
		Redis:    RedisConfig{Channel: "sales.events"},
		Metrics:  MetricsConfig{Enabled: true},
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Log.Mode = normalizeMode(cfg.Log.Mode)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTP.Addr, "SALES_HTTP_ADDR")
	setString(&c.Database.Driver, "SALES_DB_DRIVER")
	setString(&c.Database.DSN, "SALES_DB_DSN")
	setString(&c.Log.Mode, "SALES_LOG_MODE")
	setString(&c.Redis.Addr, "SALES_REDIS_ADDR")
	setString(&c.Redis.Channel, "SALES_REDIS_CHANNEL")

	if v := strings.TrimSpace(os.Getenv("SALES_METRICS_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SALES_METRICS_ENABLED %q: %w", v, err)
		}
		c.Metrics.Enabled = b
	}
	return nil
}

func normalizeMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "prod" {
		return ModeProduction
	}
	return mode
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Redis.Enabled() && strings.TrimSpace(c.Redis.Channel) == "" {
		errs = append(errs, errors.New("redis.channel is required when redis.addr is set"))
	}

	return errors.Join(errs...)
}
