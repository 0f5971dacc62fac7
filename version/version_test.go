package version

import (
	"strings"
	"testing"
)

func TestGet_DefaultVersion(t *testing.T) {
	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected dev version without ldflags, got %q", info.Version)
	}
}

func TestShort_ContainsVersion(t *testing.T) {
	if !strings.HasPrefix(Short(), "dev") {
		t.Errorf("expected short version to start with dev, got %q", Short())
	}
}
