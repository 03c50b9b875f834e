// Package config loads the taskboard configuration from .taskboard/config.json
// and TASKBOARD_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/example/taskboard/internal/db"
)

// Environment variables that override file settings.
const (
	EnvDBDriver  = "TASKBOARD_DB_DRIVER"
	EnvDBPath    = "TASKBOARD_DB_PATH"
	EnvListen    = "TASKBOARD_LISTEN"
	EnvRedisURL  = "TASKBOARD_REDIS_URL"
	EnvCacheTTL  = "TASKBOARD_CACHE_TTL"
	EnvJWTSecret = "TASKBOARD_JWT_SECRET"
	EnvLogLevel  = "TASKBOARD_LOG_LEVEL"
	EnvLogFormat = "TASKBOARD_LOG_FORMAT"
	EnvActor     = "TASKBOARD_ACTOR"
)

const (
	configDir  = ".taskboard"
	configFile = "config.json"
)

// Config represents the flat taskboard configuration.
type Config struct {
	Version      string   `json:"version"`
	DBDriver     string   `json:"db_driver,omitempty"`     // sqlite3 (cgo) or sqlite (pure Go)
	DBPath       string   `json:"db_path,omitempty"`       // defaults to ~/.taskboard/taskboard.db
	Listen       string   `json:"listen,omitempty"`        // HTTP listen address
	RedisURL     string   `json:"redis_url,omitempty"`     // empty disables the metadata cache
	CacheTTL     string   `json:"cache_ttl,omitempty"`     // Go duration
	JWTSecret    string   `json:"jwt_secret,omitempty"`    // empty selects X-Actor-ID mode
	LogLevel     string   `json:"log_level,omitempty"`     // logrus level
	LogFormat    string   `json:"log_format,omitempty"`    // text or json
	AllowOrigins []string `json:"allow_origins,omitempty"` // CORS origins
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:   "1",
		DBDriver:  db.DriverCGO,
		Listen:    ":8080",
		CacheTTL:  "5m",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the config in dir (defaults when absent), applies environment
// overrides and validates the result.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads .taskboard/config.json from the specified directory.
// Unset fields keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := sonic.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, configDir)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", configDir, err)
	}

	data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, configFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from TASKBOARD_* variables that are set.
func (c *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		EnvDBDriver:  &c.DBDriver,
		EnvDBPath:    &c.DBPath,
		EnvListen:    &c.Listen,
		EnvRedisURL:  &c.RedisURL,
		EnvCacheTTL:  &c.CacheTTL,
		EnvJWTSecret: &c.JWTSecret,
		EnvLogLevel:  &c.LogLevel,
		EnvLogFormat: &c.LogFormat,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*field = strings.TrimSpace(v)
		}
	}
}

// Validate rejects unknown drivers, formats and bad durations.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "", db.DriverCGO, db.DriverPureGo:
	default:
		return fmt.Errorf("unsupported db_driver %q (%s or %s)", c.DBDriver, db.DriverCGO, db.DriverPureGo)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (text or json)", c.LogFormat)
	}
	if _, err := c.CacheTTLDuration(); err != nil {
		return err
	}
	return nil
}

// CacheTTLDuration parses CacheTTL. Empty means caching writes are disabled.
func (c *Config) CacheTTLDuration() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_ttl %q: %w", c.CacheTTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid cache_ttl %q: must not be negative", c.CacheTTL)
	}
	return d, nil
}

// DatabasePath returns DBPath or the default location.
func (c *Config) DatabasePath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return db.DefaultPath()
}
