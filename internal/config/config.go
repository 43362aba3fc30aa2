// Package config provides layered configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved configuration.
type Config struct {
	// Credentials
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// API settings
	BaseURL       string        `yaml:"base_url"`
	TokenURL      string        `yaml:"token_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RetryAttempts int           `yaml:"retry_attempts"`

	// Server settings
	Listen   string `yaml:"listen"`    // SSE listen address; empty = stdio
	LogLevel string `yaml:"log_level"` // trace, debug, info, warn, error

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `yaml:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	BaseURL  string
	Listen   string
	LogLevel string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:       "https://api.squarespace.com/1.0",
		TokenURL:      "https://login.squarespace.com/api/1/login/oauth/provider/tokens",
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
		LogLevel:      "info",
		Sources:       make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > file > defaults.
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(cfg, Path()); err != nil {
		return nil, err
	}
	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return nil // File doesn't exist, skip
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("malformed config at %s: %w", path, err)
	}

	if fileCfg.AccessToken != "" {
		cfg.AccessToken = fileCfg.AccessToken
		cfg.Sources["access_token"] = string(SourceFile)
	}
	if fileCfg.RefreshToken != "" {
		cfg.RefreshToken = fileCfg.RefreshToken
		cfg.Sources["refresh_token"] = string(SourceFile)
	}
	if fileCfg.ClientID != "" {
		cfg.ClientID = fileCfg.ClientID
		cfg.Sources["client_id"] = string(SourceFile)
	}
	if fileCfg.ClientSecret != "" {
		cfg.ClientSecret = fileCfg.ClientSecret
		cfg.Sources["client_secret"] = string(SourceFile)
	}
	if fileCfg.BaseURL != "" {
		cfg.BaseURL = fileCfg.BaseURL
		cfg.Sources["base_url"] = string(SourceFile)
	}
	if fileCfg.TokenURL != "" {
		cfg.TokenURL = fileCfg.TokenURL
		cfg.Sources["token_url"] = string(SourceFile)
	}
	if fileCfg.Timeout > 0 {
		cfg.Timeout = fileCfg.Timeout
		cfg.Sources["timeout"] = string(SourceFile)
	}
	if fileCfg.RetryAttempts > 0 {
		cfg.RetryAttempts = fileCfg.RetryAttempts
		cfg.Sources["retry_attempts"] = string(SourceFile)
	}
	if fileCfg.Listen != "" {
		cfg.Listen = fileCfg.Listen
		cfg.Sources["listen"] = string(SourceFile)
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
		cfg.Sources["log_level"] = string(SourceFile)
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("SQUARESPACE_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
		cfg.Sources["access_token"] = string(SourceEnv)
	}
	if v := os.Getenv("SQUARESPACE_REFRESH_TOKEN"); v != "" {
		cfg.RefreshToken = v
		cfg.Sources["refresh_token"] = string(SourceEnv)
	}
	if v := os.Getenv("SQUARESPACE_CLIENT_ID"); v != "" {
		cfg.ClientID = v
		cfg.Sources["client_id"] = string(SourceEnv)
	}
	if v := os.Getenv("SQUARESPACE_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
		cfg.Sources["client_secret"] = string(SourceEnv)
	}
	if v := os.Getenv("SQUARESPACE_BASE_URL"); v != "" {
		cfg.BaseURL = v
		cfg.Sources["base_url"] = string(SourceEnv)
	}
	if v := os.Getenv("SQUARESPACE_TOKEN_URL"); v != "" {
		cfg.TokenURL = v
		cfg.Sources["token_url"] = string(SourceEnv)
	}
	if v := os.Getenv("SQUARESPACE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
			cfg.Sources["timeout"] = string(SourceEnv)
		}
	}
	if v := os.Getenv("SQUARESPACE_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetryAttempts = n
			cfg.Sources["retry_attempts"] = string(SourceEnv)
		}
	}
	if v := os.Getenv("SQUARESPACE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
		cfg.Sources["log_level"] = string(SourceEnv)
	}
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
		cfg.Sources["base_url"] = string(SourceFlag)
	}
	if o.Listen != "" {
		cfg.Listen = o.Listen
		cfg.Sources["listen"] = string(SourceFlag)
	}
	if o.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(o.LogLevel)
		cfg.Sources["log_level"] = string(SourceFlag)
	}
}

// Dir returns the config directory path.
func Dir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "squarespace-mcp")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}
