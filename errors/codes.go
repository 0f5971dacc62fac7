package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Payload validation errors (never retryable, caller must fix the upload)
const (
	// ErrCodeEmptyPayload indicates the uploaded audio was zero bytes.
	ErrCodeEmptyPayload ErrorCode = "EMPTY_PAYLOAD"
	// ErrCodeUnsupportedFormat indicates the declared content type is not allowed.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodePayloadTooLarge indicates the upload exceeds the configured ceiling.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeInvalidInput indicates a generic invalid request.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeTooManyRequests indicates the caller exceeded the ingress rate limit.
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
)

// Provider errors
const (
	// ErrCodeProviderUnauthorized indicates the provider rejected our credentials.
	ErrCodeProviderUnauthorized ErrorCode = "PROVIDER_UNAUTHORIZED"
	// ErrCodeProviderRateLimited indicates the provider throttled the request.
	ErrCodeProviderRateLimited ErrorCode = "PROVIDER_RATE_LIMITED"
	// ErrCodeProviderUnavailable indicates the provider failed or timed out.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeMalformedResponse indicates the provider response could not be decoded.
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	// ErrCodeProviderUnknown indicates an unclassified provider failure.
	ErrCodeProviderUnknown ErrorCode = "PROVIDER_ERROR"
	// ErrCodeEmptyTranscript indicates the provider returned zero segments.
	ErrCodeEmptyTranscript ErrorCode = "EMPTY_TRANSCRIPT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProviderRateLimited: true,
	ErrCodeProviderUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
