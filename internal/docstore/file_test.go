package docstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedsMissingDocument(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	seed := []byte(`{"serviceCategories":{},"addons":[]}`)

	first, err := store.Load(ctx, "services-data", seed)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if !bytes.Equal(first, seed) {
		t.Fatalf("expected seed back, got %s", first)
	}

	second, err := store.Load(ctx, "services-data", seed)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !bytes.Equal(second, first) {
		t.Errorf("expected byte-identical document on second load\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestLoadDoesNotReseedExistingDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	existing := []byte(`{"existing":true}`)
	if err := os.WriteFile(filepath.Join(dir, "content-data.json"), existing, 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	got, err := store.Load(ctx, "content-data", []byte(`{"seed":true}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got, existing) {
		t.Errorf("expected existing document untouched, got %s", got)
	}
}

func TestSaveReplacesDocument(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	if _, err := store.Load(ctx, "doc", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("load: %v", err)
	}
	updated := []byte(`{"v":2}`)
	if err := store.Save(ctx, "doc", updated); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "doc", []byte(`{"v":1}`))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !bytes.Equal(got, updated) {
		t.Errorf("expected %s, got %s", updated, got)
	}

	// No temp files should linger after a save.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", entry.Name())
		}
	}
}

func TestLoadSurfacesReadErrors(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	// A directory at the document path forces a read failure that is not
	// ErrNotExist.
	if err := os.Mkdir(filepath.Join(dir, "broken.json"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := store.Load(context.Background(), "broken", []byte(`{}`)); err == nil {
		t.Errorf("expected error for unreadable document")
	}
}
