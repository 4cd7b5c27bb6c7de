// Package config loads the LinkMan configuration from a YAML file with
// environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Preview PreviewConfig `yaml:"preview"`
	Cull    CullConfig    `yaml:"cull"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Preview.Validate(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := c.Cull.Validate(); err != nil {
		return fmt.Errorf("cull: %w", err)
	}
	return nil
}

// AppConfig holds process-level settings.
type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *AppConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AuthConfig holds the optional API bearer token. Empty disables auth.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// Enabled reports whether the API requires a bearer token.
func (c *AuthConfig) Enabled() bool {
	return c.Token != ""
}

// StorageConfig selects where the snapshot lives.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendJSON, BackendSQLite)),
		validation.Field(&c.Path, validation.Required),
	)
}

// PreviewConfig tunes the page preview fetcher.
type PreviewConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

// Validate validates the preview configuration.
func (c *PreviewConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.MaxBytes, validation.Required, validation.Min(int64(1024))),
	)
}

// CullConfig tunes the link health check.
type CullConfig struct {
	Concurrency    int           `yaml:"concurrency"`
	Timeout        time.Duration `yaml:"timeout"`
	ExcludeDomains []string      `yaml:"exclude_domains"`
}

// Validate validates the cull configuration.
func (c *CullConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(64)),
		validation.Field(&c.Timeout, validation.Required),
	)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataPath := "linkman.json"
	if dir, err := DefaultDir(); err == nil {
		dataPath = filepath.Join(dir, "linkman.json")
	}

	return &Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
			HTTP:     HTTPConfig{Port: 3000},
		},
		Storage: StorageConfig{
			Backend: BackendJSON,
			Path:    dataPath,
		},
		Preview: PreviewConfig{
			Timeout:   5 * time.Second,
			MaxBytes:  512 * 1024,
			UserAgent: "Mozilla/5.0 (compatible; LinkMan/1.0; +https://github.com/MASHINC1/LinkMan)",
		},
		Cull: CullConfig{
			Concurrency:    10,
			Timeout:        10 * time.Second,
			ExcludeDomains: []string{"github.com", "gitlab.com"},
		},
	}
}

// Load reads the config file at path, expanding ${VAR} references, on top of
// the defaults. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Non-fatal: run with defaults even if the file cannot be written
			_ = Save(path, cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultDir returns ~/.config/linkman.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkman"), nil
}

// DefaultPath returns the default config path: ~/.config/linkman/config.yaml
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
