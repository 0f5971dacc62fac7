// Package google implements a transcription backend on the Google Cloud
// Speech-to-Text synchronous recognize endpoint.
package google

import (
	"context"
	"encoding/base64"
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
	ProviderName = "google"

	defaultEndpoint   = "https://speech.googleapis.com"
	defaultSampleRate = 16000
	defaultTimeout    = 30 * time.Second

	recognizePath = "/v1/speech:recognize"
)

// Config holds configuration for the Google Speech backend.
type Config struct {
	// Endpoint is the API base URL.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Token is an OAuth2 bearer token. Takes precedence over APIKey.
	Token string `yaml:"token" mapstructure:"token"`
	// APIKey is a Google API key, sent as the key query parameter.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// Model selects the recognition model (e.g. "latest_short").
	Model string `yaml:"model" mapstructure:"model"`
	// SampleRate is the fallback sample rate in Hz when the payload carries no hint.
	SampleRate int `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Timeout bounds each recognize call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Breaker sizes the circuit breaker guarding the recognize endpoint.
	Breaker transcription.BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.SampleRate == 0 {
		c.SampleRate = defaultSampleRate
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Provider implements transcription.Provider against the Speech-to-Text
// REST API.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates the backend from configuration.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()

	clientCfg := httpclient.Config{
		BaseURL:        cfg.Endpoint,
		Timeout:        cfg.Timeout,
		CircuitBreaker: cfg.Breaker.ClientBreaker(ProviderName),
	}
	switch {
	case cfg.Token != "":
		clientCfg.Auth = httpclient.BearerAuth(cfg.Token)
	case cfg.APIKey != "":
		clientCfg.Auth = httpclient.APIKeyAuthQuery(cfg.APIKey, "key")
	}

	client, err := httpclient.New(clientCfg)
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory creating Google backends from a
// generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		gc := Config{}
		if v, ok := cfg["endpoint"].(string); ok {
			gc.Endpoint = v
		}
		if v, ok := cfg["token"].(string); ok {
			gc.Token = v
		}
		if v, ok := cfg["api_key"].(string); ok {
			gc.APIKey = v
		}
		if v, ok := cfg["model"].(string); ok {
			gc.Model = v
		}
		if v, ok := cfg["sample_rate"].(int); ok {
			gc.SampleRate = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			gc.Timeout = v
		}
		if v, ok := cfg["breaker"].(transcription.BreakerConfig); ok {
			gc.Breaker = v
		}
		return NewProvider(gc)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the backend has credentials to call the API.
// The recognize endpoint has no health probe, so this is a local check.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.cfg.Token != "" || p.cfg.APIKey != ""
}

// Transcribe sends one synchronous recognize call and converts the response.
func (p *Provider) Transcribe(ctx context.Context, req transcription.TranscriptionRequest) (*transcription.TranscriptionResult, error) {
	encoding := req.Audio.Encoding
	if encoding == "" {
		encoding = encodingForContentType(req.Audio.ContentType)
	}
	sampleRate := req.Audio.SampleRate
	if sampleRate == 0 {
		sampleRate = p.cfg.SampleRate
	}

	body := recognizeRequest{
		Config: recognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: sampleRate,
			LanguageCode:    req.Language,
			Model:           p.cfg.Model,
		},
		Audio: recognitionAudio{
			Content: base64.StdEncoding.EncodeToString(req.Audio.Data),
		},
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   recognizePath,
		Body:   body,
	})
	if err != nil {
		return nil, transcription.MapTransportError(ProviderName, err)
	}

	var result recognizeResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, errors.MalformedResponse(ProviderName, err)
	}

	return toResult(&result, req.Language), nil
}

// encodingForContentType maps a normalized MIME type to the API's encoding
// enum. Unknown types fall through to ENCODING_UNSPECIFIED, letting the API
// sniff the header where it can.
func encodingForContentType(contentType string) string {
	switch contentType {
	case "audio/wav", "audio/x-wav":
		return "LINEAR16"
	case "audio/flac", "audio/x-flac":
		return "FLAC"
	case "audio/mpeg":
		return "MP3"
	case "audio/ogg":
		return "OGG_OPUS"
	case "audio/webm":
		return "WEBM_OPUS"
	default:
		return "ENCODING_UNSPECIFIED"
	}
}

// --- Speech-to-Text API wire types ---

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding        string `json:"encoding,omitempty"`
	SampleRateHertz int    `json:"sampleRateHertz,omitempty"`
	LanguageCode    string `json:"languageCode"`
	Model           string `json:"model,omitempty"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []speechResult `json:"results"`
}

type speechResult struct {
	Alternatives  []speechAlternative `json:"alternatives"`
	ResultEndTime string              `json:"resultEndTime"`
	LanguageCode  string              `json:"languageCode"`
}

type speechAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// toResult converts a recognize response to the pipeline result type. Each
// API result contributes one segment from its top-ranked alternative;
// results without alternatives are skipped.
func toResult(resp *recognizeResponse, language string) *transcription.TranscriptionResult {
	segments := make([]transcription.Segment, 0, len(resp.Results))
	var duration float64

	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		top := r.Alternatives[0]
		end := parseAPITime(r.ResultEndTime)
		segments = append(segments, transcription.Segment{
			Text:       strings.TrimSpace(top.Transcript),
			End:        end,
			Confidence: top.Confidence,
		})
		if end > duration {
			duration = end
		}
		if language == "" && r.LanguageCode != "" {
			language = r.LanguageCode
		}
	}

	return &transcription.TranscriptionResult{
		Provider: ProviderName,
		Language: language,
		Segments: segments,
		Duration: duration,
	}
}

// parseAPITime parses API duration strings like "3.500s" into seconds.
func parseAPITime(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d.Seconds()
}
