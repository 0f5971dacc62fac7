package validation

import (
	"testing"

	"github.com/honeyvig/voicescribe/errors"
)

type sampleRequest struct {
	Language string `json:"language" validate:"omitempty,bcp47_language_tag"`
	Provider string `json:"provider" validate:"required,oneof=google whisper"`
}

func TestValidate_Passes(t *testing.T) {
	if err := Validate(sampleRequest{Language: "en-US", Provider: "google"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate(sampleRequest{Provider: "whisper"}); err != nil {
		t.Errorf("empty optional language should pass, got %v", err)
	}
}

func TestValidate_FailsWithFieldDetails(t *testing.T) {
	err := Validate(sampleRequest{Language: "not a tag!", Provider: "bad"})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}

	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors, got %v", appErr.Details)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Language":    "language",
		"MaxBodySize": "max_body_size",
		"already":     "already",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("%s: expected %s, got %s", in, want, got)
		}
	}
}
