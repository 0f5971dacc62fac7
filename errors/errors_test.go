package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_EmptyPayload(t *testing.T) {
	err := EmptyPayload()
	if err.Code != ErrCodeEmptyPayload {
		t.Errorf("expected EMPTY_PAYLOAD, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("EmptyPayload should not be retryable")
	}
}

func TestAppError_UnsupportedFormat(t *testing.T) {
	err := UnsupportedFormat("text/plain", []string{"audio/wav"})
	if err.Code != ErrCodeUnsupportedFormat {
		t.Errorf("expected UNSUPPORTED_FORMAT, got %s", err.Code)
	}
	if err.Details["content_type"] != "text/plain" {
		t.Errorf("expected content_type detail, got %v", err.Details["content_type"])
	}
	if err.Retryable {
		t.Error("UnsupportedFormat should not be retryable")
	}
}

func TestAppError_PayloadTooLarge(t *testing.T) {
	err := PayloadTooLarge(100, 50)
	if err.Code != ErrCodePayloadTooLarge {
		t.Errorf("expected PAYLOAD_TOO_LARGE, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", err.HTTPStatus)
	}
	if err.Details["limit_bytes"] != int64(50) {
		t.Errorf("expected limit_bytes=50, got %v", err.Details["limit_bytes"])
	}
}

func TestAppError_ProviderTaxonomy(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"unauthorized", ProviderUnauthorized("google"), ErrCodeProviderUnauthorized, http.StatusBadGateway, false},
		{"rate_limited", ProviderRateLimited("google"), ErrCodeProviderRateLimited, http.StatusServiceUnavailable, true},
		{"unavailable", ProviderUnavailable("google", nil), ErrCodeProviderUnavailable, http.StatusServiceUnavailable, true},
		{"malformed", MalformedResponse("google", nil), ErrCodeMalformedResponse, http.StatusBadGateway, false},
		{"unknown", ProviderUnknown("google", nil), ErrCodeProviderUnknown, http.StatusInternalServerError, false},
		{"empty_transcript", EmptyTranscript("google"), ErrCodeEmptyTranscript, http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.HTTPStatus)
			}
			if tt.err.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, tt.err.Retryable)
			}
			if tt.err.Details["provider"] != "google" {
				t.Errorf("expected provider detail, got %v", tt.err.Details["provider"])
			}
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := ProviderUnavailable("whisper", cause)
	if !strings.Contains(err.Error(), "PROVIDER_UNAVAILABLE") {
		t.Errorf("expected code in error string, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected cause in error string, got %q", err.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Internal(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(ProviderRateLimited("g")) {
		t.Error("rate limited should be retryable")
	}
	if IsRetryable(ProviderUnauthorized("g")) {
		t.Error("unauthorized should not be retryable")
	}
	if IsRetryable(fmt.Errorf("plain error")) {
		t.Error("plain errors should not be retryable")
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", EmptyTranscript("g"))
	if !HasCode(wrapped, ErrCodeEmptyTranscript) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(wrapped, ErrCodeEmptyPayload) {
		t.Error("expected HasCode to reject a different code")
	}
}

func TestToResponse(t *testing.T) {
	resp := PayloadTooLarge(100, 50).ToResponse()
	if resp.Error.Code != ErrCodePayloadTooLarge {
		t.Errorf("expected code in response, got %s", resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected message in response")
	}
}
