// Package errors provides unified error handling for the transcription service.
// It implements structured error types with machine-readable codes, HTTP status
// mapping, and retryable detection so the gateway can render every failure path
// without inspecting provider internals.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Validation error constructors ---

// EmptyPayload creates an AppError for a zero-byte upload.
func EmptyPayload() *AppError {
	return &AppError{
		Code: ErrCodeEmptyPayload, Message: "The uploaded audio is empty.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// UnsupportedFormat creates an AppError for a content type outside the allow-set.
func UnsupportedFormat(contentType string, allowed []string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("Audio format %q is not supported.", contentType),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"content_type": contentType, "allowed": allowed},
	}
}

// PayloadTooLarge creates an AppError for an upload exceeding the size ceiling.
func PayloadTooLarge(size, limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: "The uploaded audio exceeds the maximum allowed size.",
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"size_bytes": size, "limit_bytes": limit},
	}
}

// InvalidInput creates an AppError for a generic invalid request.
func InvalidInput(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// TooManyRequests creates an AppError for an ingress rate limit rejection.
func TooManyRequests() *AppError {
	return &AppError{
		Code: ErrCodeTooManyRequests, Message: "Too many requests. Please slow down and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// --- Provider error constructors ---

// ProviderUnauthorized creates an AppError for rejected provider credentials.
func ProviderUnauthorized(provider string) *AppError {
	return &AppError{
		Code: ErrCodeProviderUnauthorized, Message: "The transcription provider rejected the service credentials.",
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"provider": provider},
	}
}

// ProviderRateLimited creates an AppError for a throttled provider call.
func ProviderRateLimited(provider string) *AppError {
	return &AppError{
		Code: ErrCodeProviderRateLimited, Message: "The transcription provider is rate limiting requests. Please try again shortly.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"provider": provider},
	}
}

// ProviderUnavailable creates an AppError for a failed or timed-out provider call.
func ProviderUnavailable(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProviderUnavailable, Message: "The transcription provider is temporarily unavailable. Please try again.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// MalformedResponse creates an AppError for an undecodable provider response.
func MalformedResponse(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMalformedResponse, Message: "The transcription provider returned a response the service could not understand.",
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// ProviderUnknown creates an AppError for an unclassified provider failure.
func ProviderUnknown(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProviderUnknown, Message: "The transcription provider encountered an unexpected error.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// EmptyTranscript creates an AppError for a provider response with zero segments.
func EmptyTranscript(provider string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyTranscript, Message: "No speech was recognized in the uploaded audio.",
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"provider": provider},
	}
}

// Internal creates an AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
