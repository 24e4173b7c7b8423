package authoring

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFetchReturnsLocalPathsUnchanged(t *testing.T) {
	dir := t.TempDir()
	got, err := Fetch(context.Background(), dir, filepath.Join(t.TempDir(), "unused"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %s, got %s", dir, got)
	}
}

func TestFetchDownloadsWithGetter(t *testing.T) {
	src := t.TempDir()
	writeLayout(t, src, "settings.hcl", settingsLayout)
	dst := filepath.Join(t.TempDir(), "fetched")

	got, err := Fetch(context.Background(), "file::"+src, dst)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != dst {
		t.Fatalf("expected %s, got %s", dst, got)
	}
	layouts, err := LoadLayouts(context.Background(), got)
	if err != nil {
		t.Fatalf("load fetched: %v", err)
	}
	if _, ok := Find(layouts, "settings"); !ok {
		t.Fatalf("fetched layout missing settings database")
	}
}

func TestFetchReportsGetterErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if _, err := Fetch(context.Background(), "file::"+missing, filepath.Join(t.TempDir(), "dst")); err == nil {
		t.Fatalf("expected error for missing source")
	}
}
