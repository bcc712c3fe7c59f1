package agent

import (
	"context"
	"errors"
	"testing"
)

func noopHandler(ctx context.Context, args map[string]string) (string, error) {
	return "ok", nil
}

func TestRegistryPreservesOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"zulu", "alpha", "mike"}
	for _, n := range names {
		if err := r.Register(Descriptor{Name: n, Description: n}, noopHandler); err != nil {
			t.Fatalf("Register(%s): %v", n, err)
		}
	}

	list := r.List()
	if len(list) != len(names) {
		t.Fatalf("List() returned %d descriptors, want %d", len(list), len(names))
	}
	for i, n := range names {
		if list[i].Name != n {
			t.Fatalf("position %d: got %s want %s", i, list[i].Name, n)
		}
	}
}

func TestRegistryDuplicateFailsLoudly(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{Name: "dup"}, noopHandler); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	err := r.Register(Descriptor{Name: "dup"}, noopHandler)
	if !errors.Is(err, ErrDuplicateTool) {
		t.Fatalf("expected ErrDuplicateTool, got %v", err)
	}
	if len(r.List()) != 1 {
		t.Fatalf("duplicate must not add an entry")
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{}, noopHandler); err == nil {
		t.Fatal("unnamed descriptor must fail")
	}
	if err := r.Register(Descriptor{Name: "x"}, nil); err == nil {
		t.Fatal("nil handler must fail")
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(Descriptor{Name: "known"}, noopHandler)

	if _, ok := r.Resolve("known"); !ok {
		t.Fatal("known tool not resolved")
	}
	if _, ok := r.Resolve("ghost"); ok {
		t.Fatal("unknown tool resolved")
	}
}
