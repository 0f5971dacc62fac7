package transcription

import (
	"bytes"
	"testing"

	"github.com/honeyvig/voicescribe/errors"
)

func testLimits() Limits {
	return Limits{
		AllowedTypes: DefaultAllowedTypes,
		MaxBytes:     1024,
	}
}

func TestValidatePayload_Empty(t *testing.T) {
	_, err := ValidatePayload(nil, "audio/wav", testLimits())
	if !errors.HasCode(err, errors.ErrCodeEmptyPayload) {
		t.Errorf("expected EMPTY_PAYLOAD, got %v", err)
	}

	_, err = ValidatePayload([]byte{}, "audio/wav", testLimits())
	if !errors.HasCode(err, errors.ErrCodeEmptyPayload) {
		t.Errorf("expected EMPTY_PAYLOAD for zero-length slice, got %v", err)
	}
}

func TestValidatePayload_UnsupportedFormat(t *testing.T) {
	for _, ct := range []string{"video/mp4", "text/plain", "application/json", ""} {
		_, err := ValidatePayload([]byte("data"), ct, testLimits())
		if !errors.HasCode(err, errors.ErrCodeUnsupportedFormat) {
			t.Errorf("content type %q: expected UNSUPPORTED_FORMAT, got %v", ct, err)
		}
	}
}

func TestValidatePayload_NormalizesContentType(t *testing.T) {
	payload, err := ValidatePayload([]byte("data"), "Audio/WAV; codecs=1", testLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.ContentType != "audio/wav" {
		t.Errorf("expected normalized audio/wav, got %q", payload.ContentType)
	}
}

func TestValidatePayload_TooLarge(t *testing.T) {
	data := bytes.Repeat([]byte{0x01}, 1025)
	_, err := ValidatePayload(data, "audio/wav", testLimits())
	if !errors.HasCode(err, errors.ErrCodePayloadTooLarge) {
		t.Errorf("expected PAYLOAD_TOO_LARGE, got %v", err)
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatal("expected an AppError")
	}
	if appErr.HTTPStatus != 413 {
		t.Errorf("expected HTTP 413, got %d", appErr.HTTPStatus)
	}
}

func TestValidatePayload_ExactlyAtCeiling(t *testing.T) {
	data := bytes.Repeat([]byte{0x01}, 1024)
	payload, err := ValidatePayload(data, "audio/flac", testLimits())
	if err != nil {
		t.Fatalf("payload at exactly the ceiling must pass, got %v", err)
	}
	if len(payload.Data) != 1024 {
		t.Errorf("payload data truncated: %d bytes", len(payload.Data))
	}
}

func TestValidatePayload_EmptyCheckedBeforeFormat(t *testing.T) {
	// A zero-byte upload with a bad content type reports EMPTY_PAYLOAD,
	// not UNSUPPORTED_FORMAT.
	_, err := ValidatePayload(nil, "video/mp4", testLimits())
	if !errors.HasCode(err, errors.ErrCodeEmptyPayload) {
		t.Errorf("expected EMPTY_PAYLOAD, got %v", err)
	}
}

func TestValidatePayload_Idempotent(t *testing.T) {
	data := []byte("audio bytes")
	first, err := ValidatePayload(data, "audio/ogg", testLimits())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ValidatePayload(data, "audio/ogg", testLimits())
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if first.ContentType != second.ContentType || !bytes.Equal(first.Data, second.Data) {
		t.Error("repeated validation of the same payload diverged")
	}
}

func TestValidatePayload_NoSizeLimitWhenZero(t *testing.T) {
	limits := Limits{AllowedTypes: []string{"audio/wav"}, MaxBytes: 0}
	data := bytes.Repeat([]byte{0x01}, 4096)
	if _, err := ValidatePayload(data, "audio/wav", limits); err != nil {
		t.Errorf("zero MaxBytes should disable the ceiling, got %v", err)
	}
}
