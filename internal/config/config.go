// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config handles configuration loading for the tutor agent.
// It supports a YAML config file, environment variables, and built-in
// defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Provider names selectable in configuration.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for the tutor agent.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ProviderConfig holds language model provider settings.
type ProviderConfig struct {
	// Name selects the provider: "gemini" or "anthropic".
	Name string `mapstructure:"name"`
	// GoogleAPIKey is the Google API key (GOOGLE_API_KEY).
	GoogleAPIKey string `mapstructure:"google_api_key"`
	// AnthropicAPIKey is the Anthropic API key (ANTHROPIC_API_KEY).
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	// Model is the model name; empty selects the provider's default.
	Model string `mapstructure:"model"`
	// StageTimeout bounds a single pipeline stage call.
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
}

// StorageConfig holds task store settings.
type StorageConfig struct {
	// DSN is the sqlite data source name. Empty selects the in-memory
	// store.
	DSN string `mapstructure:"dsn"`
}

// MissingAPIKeyError represents a missing API key for the selected
// provider.
type MissingAPIKeyError struct {
	Provider string
	EnvVar   string
}

// Error returns the error message.
func (e MissingAPIKeyError) Error() string {
	return fmt.Sprintf("provider %s requires %s to be set", e.Provider, e.EnvVar)
}

// Load loads configuration from the optional config file path and
// environment variables, over the built-in defaults.
// Precedence (highest to lowest):
// 1. Environment variables (GOOGLE_API_KEY, ANTHROPIC_API_KEY, TUTOR_*)
// 2. Config file (when path is non-empty)
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("TUTOR")
	v.AutomaticEnv()

	// Map the conventional API key environment variables
	v.BindEnv("provider.google_api_key", "GOOGLE_API_KEY")
	v.BindEnv("provider.anthropic_api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration can run a server. The selected
// provider must have its API key set.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderGemini:
		if c.Provider.GoogleAPIKey == "" {
			return MissingAPIKeyError{Provider: ProviderGemini, EnvVar: "GOOGLE_API_KEY"}
		}
	case ProviderAnthropic:
		if c.Provider.AnthropicAPIKey == "" {
			return MissingAPIKeyError{Provider: ProviderAnthropic, EnvVar: "ANTHROPIC_API_KEY"}
		}
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider.Name)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	return nil
}

// setDefaults sets the built-in defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 10012)
	v.SetDefault("provider.name", ProviderGemini)
	v.SetDefault("provider.stage_timeout", 120*time.Second)
	v.SetDefault("storage.dsn", "")
}
