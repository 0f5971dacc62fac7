package transcription

import (
	"mime"
	"strings"

	"github.com/honeyvig/voicescribe/errors"
)

// Limits bounds what ValidatePayload accepts.
type Limits struct {
	// AllowedTypes is the content-type allow-set.
	AllowedTypes []string
	// MaxBytes is the upload ceiling; payloads at exactly MaxBytes pass.
	MaxBytes int64
}

// ValidatePayload checks an uploaded audio buffer against the configured
// limits and returns a normalized AudioPayload. It is a pure function: no
// side effects, no network. Validation failure means no provider call is
// ever made for this upload.
func ValidatePayload(data []byte, declaredType string, limits Limits) (*AudioPayload, error) {
	if len(data) == 0 {
		return nil, errors.EmptyPayload()
	}

	contentType := normalizeContentType(declaredType)
	if !typeAllowed(contentType, limits.AllowedTypes) {
		return nil, errors.UnsupportedFormat(declaredType, limits.AllowedTypes)
	}

	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return nil, errors.PayloadTooLarge(int64(len(data)), limits.MaxBytes)
	}

	return &AudioPayload{
		Data:        data,
		ContentType: contentType,
	}, nil
}

// normalizeContentType lowercases the declared type and strips parameters,
// so "Audio/WAV; codecs=1" matches "audio/wav".
func normalizeContentType(declared string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaType
}

func typeAllowed(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if contentType == strings.ToLower(t) {
			return true
		}
	}
	return false
}
