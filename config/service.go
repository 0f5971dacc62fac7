package config

import (
	"fmt"

	"github.com/honeyvig/voicescribe/logger"
	"github.com/honeyvig/voicescribe/observability"
	"github.com/honeyvig/voicescribe/server"
	"github.com/honeyvig/voicescribe/transcription"
	"github.com/honeyvig/voicescribe/transcription/google"
	"github.com/honeyvig/voicescribe/transcription/whisper"
)

// ServiceConfig contains the base fields every service needs.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "voicescribe"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, env := range validEnvs {
		if c.Environment == env {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// Config is the full service configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Google        google.Config        `yaml:"google" mapstructure:"google"`
	Whisper       whisper.Config       `yaml:"whisper" mapstructure:"whisper"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Google.ApplyDefaults()
	c.Whisper.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Transcription.Validate(); err != nil {
		return err
	}
	return nil
}

// ProviderSettings returns the backend config map for the selected provider,
// in the shape the provider factories consume.
func (c *Config) ProviderSettings() map[string]any {
	switch c.Transcription.Provider {
	case google.ProviderName:
		return map[string]any{
			"endpoint":    c.Google.Endpoint,
			"token":       c.Google.Token,
			"api_key":     c.Google.APIKey,
			"model":       c.Google.Model,
			"sample_rate": c.Google.SampleRate,
			"timeout":     c.Google.Timeout,
			"breaker":     c.Google.Breaker,
		}
	case whisper.ProviderName:
		return map[string]any{
			"url":     c.Whisper.URL,
			"model":   c.Whisper.Model,
			"timeout": c.Whisper.Timeout,
			"breaker": c.Whisper.Breaker,
		}
	default:
		return map[string]any{}
	}
}

// LoadService loads, defaults, and validates the full service configuration.
func LoadService(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := Load(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
