package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"25MB", 25 * 1024 * 1024},
		{"512KB", 512 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"100B", 100},
		{"1024", 1024},
		{"10mb", 10 * 1024 * 1024},
		{" 2MB ", 2 * 1024 * 1024},
	}

	for _, tt := range tests {
		if got := ParseSize(tt.input, 42); got != tt.expected {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestParseSize_Invalid(t *testing.T) {
	if got := ParseSize("", 42); got != 42 {
		t.Errorf("expected default for empty string, got %d", got)
	}
	if got := ParseSize("banana", 42); got != 42 {
		t.Errorf("expected default for garbage, got %d", got)
	}
	if got := ParseSize("-5MB", 42); got != 42 {
		t.Errorf("expected default for negative size, got %d", got)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("sk-verysecretkey", 4); got != "sk-v***" {
		t.Errorf("expected masked prefix, got %q", got)
	}
	if got := MaskSecret("ab", 4); got != "***" {
		t.Errorf("short secrets must be fully masked, got %q", got)
	}
	if got := MaskSecret("", 4); got != "***" {
		t.Errorf("empty secret must be fully masked, got %q", got)
	}
}
