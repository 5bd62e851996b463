// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config file
// path.
const EnvConfig = "DQVIEW_CONFIG"

// ErrNotConfigured is returned by Load when EnvConfig is unset.
var ErrNotConfigured = errors.New(EnvConfig + " environment variable not set")

// Environment represents the deployment the viewer talks to.
type Environment string

const (
	// Development is a local catalog.
	Development Environment = "development"
	// Staging is a pre-production catalog.
	Staging Environment = "staging"
	// Production is the production catalog.
	Production Environment = "production"
)

// Config is the dqview configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Catalog configures the catalog API connection.
	Catalog CatalogConfig `yaml:"catalog"`

	// View configures the listing.
	View ViewConfig `yaml:"view"`

	// Logging configures the log file.
	Logging LoggingConfig `yaml:"logging"`

	// Per-environment overrides, applied after the base config.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Catalog *CatalogConfig `yaml:"catalog,omitempty"`
	View    *ViewConfig    `yaml:"view,omitempty"`
	Logging *LoggingConfig `yaml:"logging,omitempty"`
}

// CatalogConfig configures the catalog API connection.
type CatalogConfig struct {
	// URL is the API base URL, e.g. http://localhost:8585/api.
	URL string `yaml:"url"`

	// Token is the bearer token. Usually written as ${DQVIEW_TOKEN}
	// so the secret stays out of the file.
	Token string `yaml:"token"`

	// Timeout bounds each request, as a Go duration string.
	// Default: 30s
	Timeout string `yaml:"timeout"`
}

// ViewConfig configures the listing.
type ViewConfig struct {
	// PageSize is the number of test cases per page.
	// Default: 10
	PageSize int `yaml:"page_size"`

	// Location is the starting location when none is given on the
	// command line: a query string or a full URL.
	Location string `yaml:"location"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is the minimum level written to the log file: debug, info,
	// warn, or error. Default: info
	Level string `yaml:"level"`

	// Output is the path of a JSON log file. Empty disables file
	// logging.
	Output string `yaml:"output"`
}

// Default returns the default configuration. Loading merges the file
// over it.
func Default() *Config {
	return &Config{
		Environment: Development,
		Catalog: CatalogConfig{
			URL:     "http://localhost:8585/api",
			Token:   "${DQVIEW_TOKEN}",
			Timeout: "30s",
		},
		View: ViewConfig{
			PageSize: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by DQVIEW_CONFIG.
// Returns ErrNotConfigured when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		return nil, ErrNotConfigured
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Files ending in .json or
// .jsonc may carry comments and trailing commas.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()
	cfg.Expand()

	return cfg, nil
}

// loadFile merges one file into the current config. JSON is valid
// YAML, so both formats go through the YAML decoder once comments are
// stripped.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Catalog != nil {
		if overrides.Catalog.URL != "" {
			c.Catalog.URL = overrides.Catalog.URL
		}
		if overrides.Catalog.Token != "" {
			c.Catalog.Token = overrides.Catalog.Token
		}
		if overrides.Catalog.Timeout != "" {
			c.Catalog.Timeout = overrides.Catalog.Timeout
		}
	}

	if overrides.View != nil {
		if overrides.View.PageSize != 0 {
			c.View.PageSize = overrides.View.PageSize
		}
		if overrides.View.Location != "" {
			c.View.Location = overrides.View.Location
		}
	}

	if overrides.Logging != nil {
		if overrides.Logging.Level != "" {
			c.Logging.Level = overrides.Logging.Level
		}
		if overrides.Logging.Output != "" {
			c.Logging.Output = overrides.Logging.Output
		}
	}
}

// Expand expands ${VAR} and ${VAR:-default} patterns in the token,
// URL, and log path. LoadFile calls it; callers starting from Default
// call it themselves.
func (c *Config) Expand() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Catalog.URL = expandVars(c.Catalog.URL, vars)
	c.Catalog.Token = expandVars(c.Catalog.Token, vars)
	c.Logging.Output = expandVars(c.Logging.Output, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// MaxPageSize is the largest page size the catalog serves.
const MaxPageSize = 100

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Catalog.URL == "" {
		errs = append(errs, fmt.Errorf("catalog.url is required"))
	} else if parsed, err := url.Parse(c.Catalog.URL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("catalog.url must be an http or https URL: %q", c.Catalog.URL))
	}

	if _, err := c.Catalog.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}

	if c.View.PageSize < 1 || c.View.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("view.page_size must be between 1 and %d, got %d", MaxPageSize, c.View.PageSize))
	}

	if !slices.Contains(logLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty means no timeout.
func (catalog CatalogConfig) TimeoutDuration() (time.Duration, error) {
	if catalog.Timeout == "" {
		return 0, nil
	}
	duration, err := time.ParseDuration(catalog.Timeout)
	if err != nil || duration < 0 {
		return 0, fmt.Errorf("catalog.timeout must be a non-negative duration: %q", catalog.Timeout)
	}
	return duration, nil
}

// SlogLevel returns Level as a slog level. Unknown levels map to info;
// Validate rejects them.
func (logging LoggingConfig) SlogLevel() slog.Level {
	switch logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
