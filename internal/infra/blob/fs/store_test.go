package fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"gameframework/internal/blob/blobtest"
	"gameframework/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStoreContract(t *testing.T) {
	blobtest.RunStoreContract(t, func(t *testing.T) core.Store { return newTempStore(t) })
}

func TestStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	for _, key := range []string{"", "  ", "../escape.txt", "/abs", "a/b.meta"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestStore_SidecarAndETag(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	first, err := store.Put(ctx, "settings/snapshot.json", bytes.NewReader([]byte("{}")), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Root(), "settings", "snapshot.json.meta")); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	second, err := store.Put(ctx, "settings/snapshot.json", bytes.NewReader([]byte("[]")), core.PutOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if first.ETag == second.ETag || len(second.ETag) != 64 {
		t.Fatalf("expected new sha256 etag, got %q then %q", first.ETag, second.ETag)
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
}

func TestNewDefaultsRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	store, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if store.Root() != DefaultRoot {
		t.Fatalf("expected default root, got %q", store.Root())
	}
	if _, err := os.Stat(filepath.Join(dir, "blobdata")); err != nil {
		t.Fatalf("default root not created: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	store := newTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "k", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected canceled put")
	}
	if _, err := store.List(ctx, ""); err == nil {
		t.Fatalf("expected canceled list")
	}
}
