package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"serviceflow/internal/domain"
	"serviceflow/internal/location"
	"serviceflow/internal/store"
)

// Environment variables that override the config file.
const (
	EnvBackendURL = "SERVICEFLOW_BACKEND_URL"
	EnvLogLevel   = "SERVICEFLOW_LOG_LEVEL"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all ServiceFlow CLI configuration.
type Config struct {
	// DashboardURL is where a registered company continues. A path is resolved
	// against the backend base URL.
	DashboardURL string `yaml:"dashboard_url"`

	Backend  BackendConfig  `yaml:"backend"`
	Location LocationConfig `yaml:"location"`
	Wizard   WizardConfig   `yaml:"wizard"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BackendConfig configures the accounts and geocoding API client.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// LocationConfig configures the location picker.
type LocationConfig struct {
	Country            string             `yaml:"country"` // ISO 3166-1 alpha-2
	GeolocationTimeout string             `yaml:"geolocation_timeout"`
	AllowGeolocation   bool               `yaml:"allow_geolocation"`
	Default            domain.GeoLocation `yaml:"default"`
}

// WizardConfig configures the registration wizard.
type WizardConfig struct {
	// RequireResolvedLocation rejects stage 2 unless the address came from the map
	// or a suggestion.
	RequireResolvedLocation bool `yaml:"require_resolved_location"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // empty: stderr for plain commands, nothing for the TUI
}

// DefaultConfigPath returns ~/.serviceflow/config.yaml, or a relative path when the
// home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".serviceflow", "config.yaml")
	}
	return filepath.Join(home, ".serviceflow", "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DashboardURL: "/dashboard",
		Backend: BackendConfig{
			BaseURL: "http://127.0.0.1:8080",
			Timeout: "15s",
		},
		Location: LocationConfig{
			Country:            location.DefaultCountry,
			GeolocationTimeout: location.DefaultTimeout.String(),
			AllowGeolocation:   true,
			Default:            location.DefaultCenter,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, replacing path atomically.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := store.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv(EnvBackendURL); u != "" {
		c.Backend.BaseURL = u
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = lvl
	}
}

// GetBackendTimeout returns the per-request backend timeout.
func (c *Config) GetBackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetGeolocationTimeout returns the location picker timeout.
func (c *Config) GetGeolocationTimeout() time.Duration {
	d, err := time.ParseDuration(c.Location.GeolocationTimeout)
	if err != nil || d <= 0 {
		return location.DefaultTimeout
	}
	return d
}

// GetDashboardURL resolves DashboardURL against the backend base URL.
func (c *Config) GetDashboardURL() string {
	ref, err := url.Parse(c.DashboardURL)
	if err != nil || ref.IsAbs() {
		return c.DashboardURL
	}
	base, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return c.DashboardURL
	}
	return base.ResolveReference(ref).String()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: backend.base_url %q must be an http(s) URL", ErrInvalidConfig, c.Backend.BaseURL)
	}
	for key, v := range map[string]string{
		"backend.timeout":              c.Backend.Timeout,
		"location.geolocation_timeout": c.Location.GeolocationTimeout,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return fmt.Errorf("%w: %s %q is not a positive duration", ErrInvalidConfig, key, v)
		}
	}
	if cc := c.Location.Country; cc != "" && (len(cc) != 2 || strings.ToLower(cc) != cc) {
		return fmt.Errorf("%w: location.country %q must be a lower-case two-letter code", ErrInvalidConfig, cc)
	}
	if !c.Location.Default.ValidCoordinates() {
		return fmt.Errorf("%w: location.default coordinates out of range", ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	return nil
}
