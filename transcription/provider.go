package transcription

import (
	"context"

	"github.com/honeyvig/voicescribe/provider"
)

// Provider is the interface that transcription backends must implement.
// Implementations translate TranscriptionRequest into their wire format and
// map transport failures onto the errors package taxonomy deterministically:
// 401/403 to ProviderUnauthorized, 429 to ProviderRateLimited, 5xx and
// timeouts to ProviderUnavailable, undecodable bodies to MalformedResponse,
// anything else to ProviderUnknown.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe sends audio for transcription and returns the result.
	// It performs one outbound call per invocation and holds no state.
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResult, error)
}

// NewRegistry creates a new provider registry for transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
