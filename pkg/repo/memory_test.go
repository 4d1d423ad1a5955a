package repo

import (
	"context"
	"errors"
	"testing"
)

type payload struct {
	Name  string         `json:"name"`
	Attrs map[string]any `json:"attrs"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[payload]()

	in := payload{Name: "a", Attrs: map[string]any{"n": 1.0}}
	if err := s.Put(ctx, "ern-1", in); err != nil {
		t.Fatal(err)
	}
	in.Attrs["n"] = 2.0

	got, err := s.Get(ctx, "ern-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "a" || got.Attrs["n"] != 1.0 {
		t.Fatalf("store should not alias caller state, got %+v", got)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", s.Len())
	}
}

func TestMemoryStoreNotFoundAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[payload]()
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
	s.Put(ctx, "k", payload{Name: "x"})
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore[payload]()
	if err := s.Put(ctx, "k", payload{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
