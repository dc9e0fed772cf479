// Package config loads and saves the cdwire tool configuration.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the configuration of the cdwire inspection server and CLI.
type Config struct {
	Bind       string   `yaml:"bind"`
	Port       int      `yaml:"port"`
	CaptureDir string   `yaml:"capture_dir"`
	Security   Security `yaml:"security"`
	Decode     Decode   `yaml:"decode"`
	Logging    Logging  `yaml:"logging"`
}

// Security contains security-related configuration.
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Decode holds defaults applied to decode requests that do not set their
// own time zone context.
type Decode struct {
	GMTOffset int  `yaml:"gmt_offset"`
	DST       bool `yaml:"dst"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bind:       "127.0.0.1",
		Port:       8080,
		CaptureDir: "./captures",
		Security: Security{
			APIKey: "auto",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path with secure
// permissions.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key.
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a fresh configuration with a generated API key,
// or loads the existing one if configPath is already present.
func BootstrapConfig(configPath, captureDir string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		return LoadConfig(configPath)
	}

	config := DefaultConfig()
	if captureDir != "" {
		config.CaptureDir = captureDir
	}

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}
	return config, nil
}
