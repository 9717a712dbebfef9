// Package storetest holds behaviour tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/alfredjeanlab/qrscout/internal/store"
)

// Run exercises s against the store.Store contract. s must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadMissing", func(t *testing.T) {
		if _, err := s.Load(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SaveLoad", func(t *testing.T) {
		doc := `{"title":"Crescendo 2024","sections":[]}`
		if err := s.Save(ctx, store.DefaultKey, doc); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Load(ctx, store.DefaultKey)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got != doc {
			t.Errorf("Load() = %q, want %q", got, doc)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := s.Save(ctx, "k", "first"); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := s.Save(ctx, "k", "second"); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Load(ctx, "k")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got != "second" {
			t.Errorf("Load() = %q, want last write", got)
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		if err := s.Save(ctx, "a/b", "slash"); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := s.Save(ctx, "a", "plain"); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if got, _ := s.Load(ctx, "a/b"); got != "slash" {
			t.Errorf("Load(a/b) = %q, want slash", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Save(ctx, "gone", "x"); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := s.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Load(ctx, "gone"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Load after Delete error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, "gone"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second Delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("EmptyValue", func(t *testing.T) {
		if err := s.Save(ctx, "empty", ""); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, err := s.Load(ctx, "empty")
		if err != nil || got != "" {
			t.Errorf("Load(empty) = %q, %v", got, err)
		}
	})
}
