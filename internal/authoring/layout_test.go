package authoring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gameframework/pkg/domain"

	"github.com/google/go-cmp/cmp"
)

const settingsLayout = `
database "settings" {
  record "audio_settings" "audio" {
    master_volume = 0.8
    muted         = false
  }
  record "graphics_settings" "graphics" {
    width   = 2560
    quality = "ultra"
  }
  record "archetype_catalog" "weapons" {}

  defaults "weapons" {
    only_if_empty = true
    archetype "sword" {
      attributes = { damage = 10, rarity = "common", tags = ["melee", "steel"] }
    }
    archetype "bow" {}
  }
}
`

func writeLayout(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write layout: %v", err)
	}
	return path
}

func TestLoadLayoutsDecodesRecordsAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "settings.hcl", settingsLayout)
	layouts, err := LoadLayouts(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(layouts) != 1 || layouts[0].Database != "settings" {
		t.Fatalf("unexpected layouts %+v", layouts)
	}
	l := layouts[0]
	if len(l.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(l.Records))
	}
	audio := l.Records[0]
	if audio.Kind != "audio_settings" || audio.Name != "audio" {
		t.Fatalf("unexpected record %+v", audio)
	}
	if v, ok := audio.Data.FloatValue("master_volume"); !ok || v != 0.8 {
		t.Fatalf("master_volume = %v, %v", v, ok)
	}
	if v, ok := l.Records[1].Data.IntValue("width"); !ok || v != 2560 {
		t.Fatalf("width = %v, %v", v, ok)
	}
	want := []DefaultsSpec{{
		Slot:        "weapons",
		OnlyIfEmpty: true,
		Archetypes: []domain.Archetype{
			{Name: "sword", Attributes: map[string]any{"damage": 10.0, "rarity": "common", "tags": []any{"melee", "steel"}}},
			{Name: "bow"},
		},
	}}
	if diff := cmp.Diff(want, l.Defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLayoutsMergesDatabasesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeLayout(t, dir, "a.hcl", `database "settings" {
  record "audio_settings" "audio" {}
}`)
	writeLayout(t, dir, "nested/b.hcl", `database "settings" {
  record "gameplay_settings" "gameplay" {
    difficulty = "hard"
  }
}
database "catalogs" {
  record "archetype_catalog" "armor" {}
}`)
	writeLayout(t, dir, ".hidden/c.hcl", `database "ignored" {}`)
	writeLayout(t, dir, "notes.txt", "not a layout")

	layouts, err := LoadLayouts(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(layouts) != 2 {
		t.Fatalf("expected 2 databases, got %+v", layouts)
	}
	settings, ok := Find(layouts, "settings")
	if !ok || len(settings.Records) != 2 || len(settings.Files) != 2 {
		t.Fatalf("unexpected merged layout %+v", settings)
	}
	if settings.Records[1].Kind != "gameplay_settings" {
		t.Fatalf("merge must keep file order: %+v", settings.Records)
	}
	if _, ok := Find(layouts, "ignored"); ok {
		t.Fatalf("hidden directories must be skipped")
	}
}

func TestLoadLayoutsErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := LoadLayouts(ctx, t.TempDir()); !errors.Is(err, ErrNoLayouts) {
		t.Fatalf("expected ErrNoLayouts, got %v", err)
	}
	if _, err := LoadLayouts(ctx, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing path")
	}
	bad := writeLayout(t, t.TempDir(), "bad.hcl", `database "x" {`)
	if _, err := LoadLayouts(ctx, bad); err == nil {
		t.Fatalf("expected parse error")
	}
	wrongBlock := writeLayout(t, t.TempDir(), "wrong.hcl", `table "x" {}`)
	if _, err := LoadLayouts(ctx, wrongBlock); err == nil {
		t.Fatalf("expected decode error")
	}
	badAttrs := writeLayout(t, t.TempDir(), "attrs.hcl", `database "x" {
  defaults "slot" {
    archetype "a" {
      attributes = "flat"
    }
  }
}`)
	if _, err := LoadLayouts(ctx, badAttrs); err == nil {
		t.Fatalf("expected attributes error")
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	file := writeLayout(t, t.TempDir(), "ok.hcl", `database "x" {}`)
	if _, err := LoadLayouts(canceled, file); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
