// Package config resolves runtime settings from, in increasing priority:
// built-in defaults, an optional YAML file, a .env file, and the process
// environment. Command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/socialdebt/internal/store"
)

// Environment variables read by Load.
const (
	EnvDataDir          = "SOCIALDEBT_DATA_DIR"
	EnvDBPath           = "SOCIALDEBT_DB_PATH"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFile          = "SOCIALDEBT_LOG_FILE"
	EnvReminderInterval = "SOCIALDEBT_REMINDER_INTERVAL"
	EnvPageSize         = "SOCIALDEBT_PAGE_SIZE"
)

const (
	defaultReminderInterval = time.Minute
	defaultPageSize         = 10
)

// Config holds the application settings.
type Config struct {
	DataDir          string        `yaml:"data_dir"`
	DBPath           string        `yaml:"db_path"`
	LogLevel         string        `yaml:"log_level"`
	LogFile          string        `yaml:"log_file"`
	ReminderInterval time.Duration `yaml:"reminder_interval"`
	PageSize         int           `yaml:"page_size"`
}

// Default returns the built-in settings. Paths are left empty and derived
// from DataDir by Resolve.
func Default() Config {
	return Config{
		LogLevel:         "info",
		ReminderInterval: defaultReminderInterval,
		PageSize:         defaultPageSize,
	}
}

// DefaultPath returns the config file location under XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "socialdebt", "config.yaml"), nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env not loaded", "error", err)
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, fmt.Errorf("determine config path: %w", err)
		}
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DataDir = envOrDefault(EnvDataDir, c.DataDir)
	c.DBPath = envOrDefault(EnvDBPath, c.DBPath)
	c.LogLevel = envOrDefault(EnvLogLevel, c.LogLevel)
	c.LogFile = envOrDefault(EnvLogFile, c.LogFile)

	if v := os.Getenv(EnvReminderInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvReminderInterval, err)
		}
		c.ReminderInterval = d
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.PageSize = n
	}
	return nil
}

// Resolve fills in derived paths and replaces invalid values with defaults.
func (c *Config) Resolve() error {
	if c.DataDir == "" {
		dir, err := store.DefaultDataDir()
		if err != nil {
			return fmt.Errorf("determine data dir: %w", err)
		}
		c.DataDir = dir
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "socialdebt.db")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "socialdebt.log")
	}
	if c.ReminderInterval <= 0 {
		c.ReminderInterval = defaultReminderInterval
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
