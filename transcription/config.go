package transcription

import (
	"fmt"
	"time"

	"github.com/honeyvig/voicescribe/logger"
	"github.com/honeyvig/voicescribe/resilience"
	"github.com/honeyvig/voicescribe/util"
)

// DefaultMaxPayloadSize is the upload size ceiling applied when none is
// configured. A single recognize call never needs more than this; larger
// uploads should be rejected before any provider traffic happens.
const DefaultMaxPayloadSize = "25MB"

// DefaultAllowedTypes is the default content-type allow-set.
var DefaultAllowedTypes = []string{
	"audio/wav",
	"audio/x-wav",
	"audio/flac",
	"audio/x-flac",
	"audio/mpeg",
	"audio/ogg",
	"audio/webm",
}

// RetryPolicy configures the bounded retry applied to transient provider
// failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of provider calls (including the first).
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	// MaxBackoff caps the exponential backoff delay.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
}

// BreakerConfig sizes the circuit breaker each backend places in front of its
// HTTP client. Retries stay in the pipeline; the breaker only stops hammering
// an upstream that keeps failing.
type BreakerConfig struct {
	// Disabled turns the breaker off entirely.
	Disabled bool `yaml:"disabled" mapstructure:"disabled"`
	// MaxFailures is the number of consecutive failures before opening.
	MaxFailures int `yaml:"max_failures" mapstructure:"max_failures"`
	// Cooldown is how long an open breaker waits before letting a call through.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
	// HalfOpenMaxCalls is the number of trial calls allowed while half-open.
	HalfOpenMaxCalls int `yaml:"half_open_max_calls" mapstructure:"half_open_max_calls"`
}

// ClientBreaker converts the settings into the HTTP client breaker
// configuration, named after the backend and logging state transitions.
// Returns nil when the breaker is disabled.
func (c BreakerConfig) ClientBreaker(providerName string) *resilience.CircuitBreakerConfig {
	if c.Disabled {
		return nil
	}
	cb := resilience.DefaultCircuitBreakerConfig(providerName)
	if c.MaxFailures > 0 {
		cb.MaxFailures = c.MaxFailures
	}
	if c.Cooldown > 0 {
		cb.Timeout = c.Cooldown
	}
	if c.HalfOpenMaxCalls > 0 {
		cb.HalfOpenMaxCalls = c.HalfOpenMaxCalls
	}
	cb.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("circuit breaker state changed", logger.Fields(
			"provider", name,
			"from", from.String(),
			"to", to.String(),
		))
	}
	return &cb
}

// Config holds the transcription pipeline configuration.
type Config struct {
	// Provider selects the backend ("google" or "whisper"). Resolved against
	// the registry once at startup.
	Provider string `yaml:"provider" mapstructure:"provider"`
	// DefaultLanguage is used when the caller does not specify one.
	DefaultLanguage string `yaml:"default_language" mapstructure:"default_language"`
	// AllowedTypes is the content-type allow-set for uploads.
	AllowedTypes []string `yaml:"allowed_types" mapstructure:"allowed_types"`
	// MaxPayloadSize is the upload ceiling as a size string (e.g. "25MB").
	MaxPayloadSize string `yaml:"max_payload_size" mapstructure:"max_payload_size"`
	// MaxConcurrent caps simultaneous in-flight provider calls.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// AttemptTimeout bounds each individual provider call.
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`
	// Retry configures backoff for RateLimited/Unavailable provider failures.
	Retry RetryPolicy `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "google"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en-US"
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = DefaultAllowedTypes
	}
	if c.MaxPayloadSize == "" {
		c.MaxPayloadSize = DefaultMaxPayloadSize
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 8
	}
	if c.AttemptTimeout == 0 {
		c.AttemptTimeout = 30 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = 500 * time.Millisecond
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = 4 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("transcription.provider is required")
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("transcription.max_concurrent must be non-negative (got: %d)", c.MaxConcurrent)
	}
	if c.AttemptTimeout < 0 {
		return fmt.Errorf("transcription.attempt_timeout must be non-negative (got: %s)", c.AttemptTimeout)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("transcription.retry.max_attempts must be at least 1 (got: %d)", c.Retry.MaxAttempts)
	}
	if util.ParseSize(c.MaxPayloadSize, -1) < 0 {
		return fmt.Errorf("transcription.max_payload_size is not a valid size (got: %s)", c.MaxPayloadSize)
	}
	return nil
}

// MaxPayloadBytes returns the configured upload ceiling in bytes.
func (c *Config) MaxPayloadBytes() int64 {
	return util.ParseSize(c.MaxPayloadSize, 25*1024*1024)
}

// Limits returns the validation limits derived from the configuration.
func (c *Config) Limits() Limits {
	return Limits{
		AllowedTypes: c.AllowedTypes,
		MaxBytes:     c.MaxPayloadBytes(),
	}
}
