package transcription

import (
	stderrors "errors"

	"github.com/honeyvig/voicescribe/errors"
	"github.com/honeyvig/voicescribe/httpclient"
	"github.com/honeyvig/voicescribe/resilience"
)

// MapTransportError converts an HTTP transport failure into the pipeline
// error taxonomy. Every backend uses this so the mapping is identical across
// providers: credential rejections (401/403) are terminal, throttling (429),
// server/transport failures, and an open circuit breaker are retryable,
// everything else is unknown.
func MapTransportError(providerName string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case httpclient.IsAuth(err):
		return errors.ProviderUnauthorized(providerName).WithCause(err)
	case httpclient.IsRateLimit(err):
		return errors.ProviderRateLimited(providerName).WithCause(err)
	case httpclient.IsServerError(err), httpclient.IsTimeout(err), httpclient.IsConnection(err):
		return errors.ProviderUnavailable(providerName, err)
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		return errors.ProviderUnavailable(providerName, err)
	default:
		return errors.ProviderUnknown(providerName, err)
	}
}
