// Package config provides configuration loading and management for the server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slovensko-digital/autoform-mcp-server/internal/autoform"
	"github.com/slovensko-digital/autoform-mcp-server/internal/httpclient"
)

// DefaultAddress is the listen address of the HTTP transport.
const DefaultAddress = ":8080"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure. Every field is
// optional; defaults apply through the getters. The access credential is
// never part of the configuration file.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// UpstreamConfig defines the Autoform API endpoint settings
type UpstreamConfig struct {
	// Endpoint is the corporate-body search URL.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Timeout is the per-request timeout (e.g., "10s", "1m").
	Timeout string `yaml:"timeout,omitempty"`
}

// ServerConfig defines the HTTP transport settings
type ServerConfig struct {
	// Address is the listen address for the HTTP transport.
	Address string `yaml:"address,omitempty"`
}

// LoggingConfig defines logging settings
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
}

// LoadConfig loads and parses configuration from a YAML file. With no
// options, an empty configuration is returned and defaults apply.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	config := &Config{}
	if loaderCfg.path == "" {
		return config, nil
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// GetEndpoint returns the upstream search endpoint, falling back to the
// production Autoform API.
func (c *Config) GetEndpoint() string {
	if c.Upstream.Endpoint == "" {
		return autoform.DefaultEndpoint
	}
	return c.Upstream.Endpoint
}

// GetTimeout returns the upstream request timeout, falling back to the HTTP
// client default.
func (c *Config) GetTimeout() time.Duration {
	if c.Upstream.Timeout == "" {
		return httpclient.DefaultTimeout
	}
	d, err := time.ParseDuration(c.Upstream.Timeout)
	if err != nil {
		return httpclient.DefaultTimeout
	}
	return d
}

// GetAddress returns the HTTP transport listen address.
func (c *Config) GetAddress() string {
	if c.Server.Address == "" {
		return DefaultAddress
	}
	return c.Server.Address
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Upstream.Endpoint != "" {
		u, err := url.Parse(c.Upstream.Endpoint)
		if err != nil {
			return fmt.Errorf("upstream.endpoint is not a valid URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("upstream.endpoint must use http or https, got %q", u.Scheme)
		}
	}

	if c.Upstream.Timeout != "" {
		if _, err := time.ParseDuration(c.Upstream.Timeout); err != nil {
			return fmt.Errorf("upstream.timeout must be a valid duration (e.g., '10s'): %w", err)
		}
	}

	return nil
}
