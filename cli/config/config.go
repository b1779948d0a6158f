// Package config handles CLI configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultKeyName is the keystore entry used when api_key_ref is unset.
const DefaultKeyName = "openai"

// Config represents the CLI configuration.
type Config struct {
	// APIKeyRef names the keystore entry holding the API key.
	APIKeyRef    string        `yaml:"api_key_ref,omitempty"`
	BaseURL      string        `yaml:"base_url,omitempty"`
	Organization string        `yaml:"organization,omitempty"`
	Project      string        `yaml:"project,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	DefaultModel string        `yaml:"default_model,omitempty"`
	LogLevel     string        `yaml:"log_level,omitempty"`
	LogFormat    string        `yaml:"log_format,omitempty"`
	// Keystore selects the key backend: "file" (default) or "keyring".
	Keystore string `yaml:"keystore,omitempty"`
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.chatjpt/config.yaml
// - Windows: %USERPROFILE%\.chatjpt\config.yaml
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), ".chatjpt", "config.yaml")
}

// HomeDir returns the user's home directory, or "." when it is unknown.
func HomeDir() string {
	var home string
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
	} else {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return "."
	}
	return home
}

// LoadConfig loads configuration from the specified path.
// If the file doesn't exist, returns an empty config without error.
// Returns an error only if the file exists but cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("parse %s: timeout must not be negative", path)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// KeyName returns the keystore entry for the API key.
func (c *Config) KeyName() string {
	if c == nil || c.APIKeyRef == "" {
		return DefaultKeyName
	}
	return c.APIKeyRef
}
