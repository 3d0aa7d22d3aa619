// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/themes"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Server
	Port          int    `json:"port,omitempty"`
	SessionTTL    string `json:"session_ttl,omitempty"`    // Go duration, e.g. "2h"
	SessionSecret string `json:"session_secret,omitempty"` // HMAC key for the session cookie

	// Export
	ChromePath    string `json:"chrome_path,omitempty"`    // Chrome/Chromium binary, PATH lookup when empty
	ExportTimeout string `json:"export_timeout,omitempty"` // Go duration, e.g. "60s"

	// Editor
	MaxPhotoBytes   int64  `json:"max_photo_bytes,omitempty"`
	DefaultTheme    string `json:"default_theme,omitempty"`    // modern, minimal or professional
	DefaultLanguage string `json:"default_language,omitempty"` // tr or en

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		SessionTTL:      "2h",
		ExportTimeout:   "60s",
		MaxPhotoBytes:   5 << 20,
		DefaultTheme:    string(themes.Default),
		DefaultLanguage: string(i18n.Default),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Empty fields are
// accepted since they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.MaxPhotoBytes < 0 {
		return fmt.Errorf("config error: 'max_photo_bytes' must be non-negative")
	}

	for name, value := range map[string]string{
		"session_ttl":    c.SessionTTL,
		"export_timeout": c.ExportTimeout,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config error: '%s': %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: '%s' must be positive", name)
		}
	}

	if c.DefaultTheme != "" {
		if _, err := themes.ParseKey(c.DefaultTheme); err != nil {
			return fmt.Errorf("config error: 'default_theme': %w", err)
		}
	}
	if c.DefaultLanguage != "" {
		if _, err := i18n.ParseLanguage(c.DefaultLanguage); err != nil {
			return fmt.Errorf("config error: 'default_language': %w", err)
		}
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.SessionSecret == "" {
		result.SessionSecret = defaults.SessionSecret
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.ExportTimeout == "" {
		result.ExportTimeout = defaults.ExportTimeout
	}
	if result.MaxPhotoBytes == 0 {
		result.MaxPhotoBytes = defaults.MaxPhotoBytes
	}
	if result.DefaultTheme == "" {
		result.DefaultTheme = defaults.DefaultTheme
	}
	if result.DefaultLanguage == "" {
		result.DefaultLanguage = defaults.DefaultLanguage
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ExportTimeoutDuration returns the export timeout, or zero when unset or invalid.
func (c *Config) ExportTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ExportTimeout)
	return d
}

// SessionTTLDuration returns the session idle lifetime, or zero when unset or invalid.
func (c *Config) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

// Theme returns the configured default theme, falling back to the built-in one.
func (c *Config) Theme() themes.Key {
	k, err := themes.ParseKey(c.DefaultTheme)
	if err != nil {
		return themes.Default
	}
	return k
}

// Language returns the configured default language, falling back to the built-in one.
func (c *Config) Language() i18n.Language {
	l, err := i18n.ParseLanguage(c.DefaultLanguage)
	if err != nil {
		return i18n.Default
	}
	return l
}

// ApplyEnv fills empty fields from environment variables.
func (c *Config) ApplyEnv() {
	if c.Port == 0 {
		if v := getEnvInt("PORT", 0); v > 0 {
			c.Port = v
		}
	}
	if c.ChromePath == "" {
		c.ChromePath = os.Getenv("CHROME_PATH")
	}
	if c.SessionSecret == "" {
		c.SessionSecret = os.Getenv("SESSION_SECRET")
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
