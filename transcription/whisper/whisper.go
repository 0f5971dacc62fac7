// Package whisper implements a transcription backend on a faster-whisper
// HTTP sidecar.
package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/honeyvig/voicescribe/errors"
	"github.com/honeyvig/voicescribe/httpclient"
	"github.com/honeyvig/voicescribe/provider"
	"github.com/honeyvig/voicescribe/transcription"
)

const (
	// ProviderName is the registered name for this backend.
	ProviderName = "whisper"

	defaultURL     = "http://localhost:8387"
	defaultModel   = "base"
	defaultTimeout = 120 * time.Second
)

// Config holds configuration for the Whisper sidecar backend.
type Config struct {
	// URL is the sidecar base URL.
	URL string `yaml:"url" mapstructure:"url"`
	// Model selects the whisper model loaded by the sidecar.
	Model string `yaml:"model" mapstructure:"model"`
	// Timeout bounds each transcribe call. Local inference on long audio is
	// slow, so this defaults well above the cloud backends.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Breaker sizes the circuit breaker guarding the sidecar.
	Breaker transcription.BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider against a faster-whisper
// HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates the backend from configuration.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()

	client, err := httpclient.New(httpclient.Config{
		BaseURL:        cfg.URL,
		Timeout:        cfg.Timeout,
		CircuitBreaker: cfg.Breaker.ClientBreaker(ProviderName),
	})
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory creating Whisper backends from a
// generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		wc := Config{}
		if v, ok := cfg["url"].(string); ok {
			wc.URL = v
		}
		if v, ok := cfg["model"].(string); ok {
			wc.Model = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			wc.Timeout = v
		}
		if v, ok := cfg["breaker"].(transcription.BreakerConfig); ok {
			wc.Breaker = v
		}
		return NewProvider(wc)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar health endpoint responds.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/health",
	})
	return err == nil && resp.IsSuccess()
}

// Transcribe uploads the audio as multipart form data and converts the
// sidecar response.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResult, error) {
	fields := map[string]string{"model": p.cfg.Model}
	if req.Language != "" {
		fields["language"] = whisperLanguage(req.Language)
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    fileNameFor(req.Audio.ContentType),
				ContentType: req.Audio.ContentType,
				Data:        req.Audio.Data,
			}},
		},
	})
	if err != nil {
		return nil, transcription.MapTransportError(ProviderName, err)
	}

	var result whisperResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, errors.MalformedResponse(ProviderName, err)
	}

	return toResult(&result), nil
}

// whisperLanguage reduces a BCP-47 tag to the bare language code the sidecar
// expects ("en-US" becomes "en").
func whisperLanguage(tag string) string {
	if idx := strings.IndexByte(tag, '-'); idx > 0 {
		return strings.ToLower(tag[:idx])
	}
	return strings.ToLower(tag)
}

// fileNameFor picks an upload file name whose extension matches the payload
// type, since the sidecar routes decoding by extension.
func fileNameFor(contentType string) string {
	switch contentType {
	case "audio/flac", "audio/x-flac":
		return "audio.flac"
	case "audio/mpeg":
		return "audio.mp3"
	case "audio/ogg":
		return "audio.ogg"
	case "audio/webm":
		return "audio.webm"
	default:
		return "audio.wav"
	}
}

// --- sidecar wire types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// toResult converts a sidecar response to the pipeline result type. A
// response carrying only flat text becomes a single segment.
func toResult(resp *whisperResponse) *transcription.TranscriptionResult {
	segments := make([]transcription.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcription.Segment{
			Text:  text,
			Start: seg.Start,
			End:   seg.End,
		})
	}

	if len(segments) == 0 {
		if text := strings.TrimSpace(resp.Text); text != "" {
			segments = append(segments, transcription.Segment{Text: text})
		}
	}

	duration := resp.Duration
	if duration == 0 && len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.TranscriptionResult{
		Provider: ProviderName,
		Language: resp.Language,
		Segments: segments,
		Duration: duration,
	}
}
