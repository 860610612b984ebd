// Package config loads runtime settings from defaults, an optional YAML file
// and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config defines application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	// Timezone cuts calendar days for filters, charts and export. Empty
	// means the process local zone.
	Timezone string `yaml:"timezone"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	WebDir string `yaml:"web_dir"`
}

// StorageConfig selects and configures the storage slot.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
	Key         string `yaml:"key"`
	Watch       bool   `yaml:"watch"`
}

// LogConfig holds the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:   "127.0.0.1:8080",
			WebDir: "web",
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			Path:   "data/glicosmart.json",
			Key:    "glicosmart_users",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from an optional YAML file named by CONFIG_PATH
// and environment variables, then validates it.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("ADDR", &cfg.Server.Addr)
	setString("WEB_DIR", &cfg.Server.WebDir)
	setString("STORAGE_DRIVER", &cfg.Storage.Driver)
	setString("STORAGE_PATH", &cfg.Storage.Path)
	setString("DATABASE_URL", &cfg.Storage.DatabaseURL)
	setString("STORAGE_KEY", &cfg.Storage.Key)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FORMAT", &cfg.Log.Format)
	setString("TIMEZONE", &cfg.Timezone)
	if v := getenv("WATCH_STORAGE"); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WATCH_STORAGE: %w", err)
		}
		cfg.Storage.Watch = watch
	}

	// A bare DATABASE_URL selects postgres.
	if getenv("STORAGE_DRIVER") == "" && getenv("DATABASE_URL") != "" {
		cfg.Storage.Driver = DriverPostgres
	}
	if cfg.Storage.Driver == DriverSQLite && cfg.Storage.Path == Default().Storage.Path {
		cfg.Storage.Path = "data/glicosmart.db"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks driver requirements and the timezone.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage driver %q requires a path", c.Storage.Driver)
		}
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("storage driver \"postgres\" requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return errors.New("storage key must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
