package localstore

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewTokenStore(path)

	// Load before any save reports an empty token, not an error.
	token, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "" {
		t.Fatalf("token = %q, want empty", token)
	}

	if err := store.Save("tok-abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err = store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("token = %q, want tok-abc", token)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	token, err = store.Load()
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if token != "" {
		t.Fatalf("token after clear = %q, want empty", token)
	}

	// Clearing an already empty store is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))

	if err := store.Save("old"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save("new"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "new" {
		t.Fatalf("token = %q, want new", token)
	}
}
