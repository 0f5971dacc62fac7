package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/honeyvig/voicescribe/transcription"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadService_FromYAML(t *testing.T) {
	dir := t.TempDir()
	configFile := writeFile(t, dir, "config.yml", `
name: voicescribe
environment: production
logging:
  level: warn
  format: json
server:
  port: 9090
transcription:
  provider: whisper
  default_language: tr-TR
  max_payload_size: 10MB
whisper:
  url: http://whisper:8387
  model: small
`)

	cfg, err := LoadService("voicescribe", WithConfigFile(configFile))
	if err != nil {
		t.Fatalf("LoadService: %v", err)
	}

	if cfg.Environment != "production" {
		t.Errorf("unexpected environment %q", cfg.Environment)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("logging section not loaded: %+v", cfg.Logging)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Transcription.Provider != "whisper" {
		t.Errorf("expected whisper provider, got %q", cfg.Transcription.Provider)
	}
	if cfg.Transcription.DefaultLanguage != "tr-TR" {
		t.Errorf("unexpected default language %q", cfg.Transcription.DefaultLanguage)
	}
	if cfg.Transcription.MaxPayloadBytes() != 10*1024*1024 {
		t.Errorf("expected 10MB ceiling, got %d", cfg.Transcription.MaxPayloadBytes())
	}
	if cfg.Whisper.URL != "http://whisper:8387" {
		t.Errorf("whisper section not loaded: %+v", cfg.Whisper)
	}
}

func TestLoadService_DefaultsApplied(t *testing.T) {
	cfg, err := LoadService("voicescribe", WithConfigFile(filepath.Join(t.TempDir(), "missing.yml")))
	if err != nil {
		t.Fatalf("LoadService: %v", err)
	}

	if cfg.Name != "voicescribe" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Transcription.Provider != "google" {
		t.Errorf("expected default provider google, got %q", cfg.Transcription.Provider)
	}
	if cfg.Transcription.MaxPayloadBytes() != 25*1024*1024 {
		t.Errorf("expected default 25MB ceiling, got %d", cfg.Transcription.MaxPayloadBytes())
	}
	if cfg.Transcription.Retry.MaxAttempts != 3 {
		t.Errorf("expected 3 retry attempts, got %d", cfg.Transcription.Retry.MaxAttempts)
	}
}

func TestLoadService_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	configFile := writeFile(t, dir, "config.yml", `
name: voicescribe
transcription:
  provider: google
`)

	t.Setenv("TRANSCRIPTION_PROVIDER", "whisper")

	cfg, err := LoadService("voicescribe", WithConfigFile(configFile))
	if err != nil {
		t.Fatalf("LoadService: %v", err)
	}
	if cfg.Transcription.Provider != "whisper" {
		t.Errorf("environment should override YAML, got %q", cfg.Transcription.Provider)
	}
}

func TestLoadService_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "GOOGLE_API_KEY=secret-key\n")

	cfg, err := LoadService("voicescribe",
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("LoadService: %v", err)
	}
	if cfg.Google.APIKey != "secret-key" {
		t.Errorf("expected API key from .env file, got %q", cfg.Google.APIKey)
	}
}

func TestLoadService_InvalidEnvironment(t *testing.T) {
	dir := t.TempDir()
	configFile := writeFile(t, dir, "config.yml", `
name: voicescribe
environment: outer-space
`)

	if _, err := LoadService("voicescribe", WithConfigFile(configFile)); err == nil {
		t.Error("expected an error for an invalid environment")
	}
}

func TestProviderSettings(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	cfg.Transcription.Provider = "google"
	cfg.Google.APIKey = "k"
	cfg.Google.Breaker.MaxFailures = 7
	settings := cfg.ProviderSettings()
	if settings["api_key"] != "k" {
		t.Errorf("google settings missing api_key: %v", settings)
	}
	breaker, ok := settings["breaker"].(transcription.BreakerConfig)
	if !ok || breaker.MaxFailures != 7 {
		t.Errorf("google settings missing breaker config: %v", settings)
	}

	cfg.Transcription.Provider = "whisper"
	settings = cfg.ProviderSettings()
	if settings["url"] != cfg.Whisper.URL {
		t.Errorf("whisper settings missing url: %v", settings)
	}
}
