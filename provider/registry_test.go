package provider

import (
	"context"
	"fmt"
	"testing"
)

type fakeProvider struct {
	name      string
	available bool
}

func (f *fakeProvider) Name() string                         { return f.name }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return f.available }

func TestRegistry_CreateFromFactory(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	reg.RegisterFactory("fake", func(cfg map[string]any) (*fakeProvider, error) {
		name, _ := cfg["name"].(string)
		return &fakeProvider{name: name, available: true}, nil
	})

	p, err := reg.Create("fake", map[string]any{"name": "fake-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "fake-1" {
		t.Errorf("expected configured name, got %s", p.Name())
	}
}

func TestRegistry_CreateUnknownFactory(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	reg.RegisterFactory("known", func(cfg map[string]any) (*fakeProvider, error) {
		return &fakeProvider{name: "known"}, nil
	})

	_, err := reg.Create("missing", nil)
	if err == nil {
		t.Fatal("expected error for unregistered factory")
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	reg.RegisterFactory("broken", func(cfg map[string]any) (*fakeProvider, error) {
		return nil, fmt.Errorf("bad config")
	})

	if _, err := reg.Create("broken", nil); err == nil {
		t.Fatal("expected factory error to propagate")
	}
}

func TestRegistry_InstanceCache(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	inst := &fakeProvider{name: "cached"}
	reg.Set("cached", inst)

	got, ok := reg.Get("cached")
	if !ok {
		t.Fatal("expected cached instance")
	}
	if got != inst {
		t.Error("expected the same instance back")
	}

	if _, ok := reg.Get("missing"); ok {
		t.Error("expected miss for unknown instance")
	}
}

func TestRegistry_List(t *testing.T) {
	reg := NewRegistry[*fakeProvider]()
	factory := func(cfg map[string]any) (*fakeProvider, error) { return &fakeProvider{}, nil }
	reg.RegisterFactory("b", factory)
	reg.RegisterFactory("a", factory)

	names := reg.List()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected sorted [a b], got %v", names)
	}
}
