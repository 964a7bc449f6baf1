// Package config resolves meterup settings from defaults, an optional YAML
// file and METERUP_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lachiem1/meterUp/internal/billapi"
	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/logging"
)

const (
	EnvConfig      = "METERUP_CONFIG"
	EnvEndpoint    = "METERUP_ENDPOINT"
	EnvBillerCode  = "METERUP_BILLER_CODE"
	EnvHTTPTimeout = "METERUP_HTTP_TIMEOUT"
	EnvDBPath      = "METERUP_DB_PATH"
	EnvHistory     = "METERUP_HISTORY"
	EnvLogLevel    = "METERUP_LOG_LEVEL"
	EnvLogOutput   = "METERUP_LOG_OUTPUT"
)

type Config struct {
	Endpoint    string         `yaml:"endpoint"`
	BillerCode  string         `yaml:"biller_code"`
	HTTPTimeout time.Duration  `yaml:"http_timeout"`
	History     History        `yaml:"history"`
	Log         logging.Config `yaml:"log"`
}

type History struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

func Default() Config {
	return Config{
		Endpoint:    billapi.DefaultEndpoint,
		BillerCode:  billing.DefaultBillerCode,
		HTTPTimeout: billapi.DefaultTimeout,
		Log:         logging.DefaultConfig(),
	}
}

// Load resolves the configuration. When path is empty METERUP_CONFIG is
// consulted; with neither set no file is read.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = envOrDefault(EnvConfig, "")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Endpoint = envOrDefault(EnvEndpoint, cfg.Endpoint)
	cfg.BillerCode = envOrDefault(EnvBillerCode, cfg.BillerCode)
	cfg.History.DBPath = envOrDefault(EnvDBPath, cfg.History.DBPath)
	cfg.Log.Level = envOrDefault(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Output = envOrDefault(EnvLogOutput, cfg.Log.Output)

	if raw := envOrDefault(EnvHTTPTimeout, ""); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}
	if raw := envOrDefault(EnvHistory, ""); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvHistory, err)
		}
		cfg.History.Enabled = enabled
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("config: endpoint required")
	}
	if strings.TrimSpace(c.BillerCode) == "" {
		return errors.New("config: biller code required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// DBPath returns the history database location, defaulting to the user
// config directory.
func (c Config) DBPath() (string, error) {
	if p := strings.TrimSpace(c.History.DBPath); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(configDir, "meterup", "history.db"), nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
