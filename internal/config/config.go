// Package config provides configuration loading and validation for the portfolio server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Content source kinds
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceDB       = "db"
)

// Config represents the server configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Listener
	Port            int           `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	ReadTimeout     time.Duration `json:"read_timeout,omitempty" validate:"omitempty,min=0"`
	WriteTimeout    time.Duration `json:"write_timeout,omitempty" validate:"omitempty,min=0"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout,omitempty" validate:"omitempty,min=0"`

	// Content
	Content     string `json:"content,omitempty" validate:"omitempty,oneof=embedded file db"` // Where the content document comes from
	ContentPath string `json:"content_path,omitempty"`                                         // JSON document when Content is "file"
	AssetsDir   string `json:"assets_dir,omitempty"`                                           // Directory served under /assets/
	DatabaseURL string `json:"database_url,omitempty"`                                         // PostgreSQL connection URL

	// Animations
	RevealDelay time.Duration `json:"reveal_delay,omitempty" validate:"omitempty,min=0"` // Wide-viewport reveal-all delay

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Content:         SourceEmbedded,
		AssetsDir:       "assets",
		RevealDelay:     100 * time.Millisecond,
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

var validate = validator.New()

// Validate checks that the configuration has valid values.
// Required fields depend on the content source.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Content {
	case SourceFile:
		if c.ContentPath == "" {
			return fmt.Errorf("config error: 'content_path' is required when content is %q", SourceFile)
		}
		if _, err := os.Stat(c.ContentPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: content file not found: %s", c.ContentPath)
		}
	case SourceDB:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required when content is %q", SourceDB)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ReadTimeout == 0 {
		result.ReadTimeout = defaults.ReadTimeout
	}
	if result.WriteTimeout == 0 {
		result.WriteTimeout = defaults.WriteTimeout
	}
	if result.ShutdownTimeout == 0 {
		result.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if result.Content == "" {
		result.Content = defaults.Content
	}
	if result.ContentPath == "" {
		result.ContentPath = defaults.ContentPath
	}
	if result.AssetsDir == "" {
		result.AssetsDir = defaults.AssetsDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RevealDelay == 0 {
		result.RevealDelay = defaults.RevealDelay
	}

	// Bool fields: cannot distinguish unset from false, so CLI flags always win

	return result
}

// FromEnv overlays PORT and DATABASE_URL from the environment
func (c *Config) FromEnv() {
	c.Port = EnvInt("PORT", c.Port)
	c.DatabaseURL = EnvString("DATABASE_URL", c.DatabaseURL)
	c.AssetsDir = EnvString("PORTFOLIO_ASSETS_DIR", c.AssetsDir)
}
