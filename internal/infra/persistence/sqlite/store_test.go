package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"gameframework/internal/codec"
	"gameframework/internal/infra/persistence/persistencetest"
	"gameframework/pkg/domain"
)

func openAdapter(t *testing.T, path, namespace string, c codec.Codec) *Adapter {
	t.Helper()
	adapter, err := NewAdapter(context.Background(), path, namespace, c)
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func TestAdapterContract(t *testing.T) {
	for _, name := range codec.Names() {
		t.Run(name, func(t *testing.T) {
			c, err := codec.ByName(name)
			if err != nil {
				t.Fatalf("codec: %v", err)
			}
			path := filepath.Join(t.TempDir(), "contract.db")
			persistencetest.RunAdapterContract(t, func(t *testing.T, namespace string) domain.DataAdapter {
				return openAdapter(t, path, namespace, c)
			})
		})
	}
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "game.db")
	first := openAdapter(t, path, "settings", codec.MessagePack{})
	source := persistencetest.NewTarget("settings", 3)
	if _, err := first.ProduceSnapshot(ctx, source); err != nil {
		t.Fatalf("produce: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen with a different codec: rows are decoded with the codec recorded at save time.
	second := openAdapter(t, path, "settings", codec.JSON{})
	data, err := second.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap, ok := domain.AsSnapshot(data)
	if !ok {
		t.Fatalf("expected snapshot after reopen, got %#v", data)
	}
	if diff := persistencetest.DiffRecords(source.Records, snap.Records); diff != "" {
		t.Fatalf("records mismatch: %s", diff)
	}
	if cached := second.ExportSnapshot(); cached == nil || cached.ID != snap.ID {
		t.Fatalf("expected load to refresh the cache, got %+v", cached)
	}
	if second.Path() != path || second.Name() != "sqlite" || second.DB() == nil {
		t.Fatalf("unexpected adapter identity")
	}
}

func TestSchemaTables(t *testing.T) {
	adapter := openAdapter(t, filepath.Join(t.TempDir(), "schema.db"), "settings", nil)
	for _, table := range []string{"snapshot_meta", "snapshot_records"} {
		var name string
		err := adapter.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestProduceFailsAfterClose(t *testing.T) {
	adapter := openAdapter(t, filepath.Join(t.TempDir(), "closed.db"), "settings", nil)
	_ = adapter.Close()
	if _, err := adapter.ProduceSnapshot(context.Background(), persistencetest.NewTarget("settings", 1)); err == nil {
		t.Fatalf("expected error writing to a closed database")
	}
	if _, err := adapter.LoadSnapshot(context.Background()); err == nil {
		t.Fatalf("expected error reading a closed database")
	}
}
