package snapshotsql_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"gameframework/internal/codec"
	"gameframework/internal/infra/persistence/persistencetest"
	"gameframework/internal/infra/persistence/snapshotsql"
	"gameframework/internal/infra/persistence/sqlite"
	"gameframework/pkg/domain"
)

func openStore(t *testing.T, c codec.Codec, namespace string) (*snapshotsql.Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "snap.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	store := snapshotsql.New(db, sqlite.Dialect, c, namespace)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return store, db
}

func persistSample(t *testing.T, store *snapshotsql.Store, n int) *domain.Snapshot {
	t.Helper()
	snap, _ := domain.AsSnapshot(persistencetest.NewTarget("settings", n).SerializableData())
	if err := store.Persist(context.Background(), snap); err != nil {
		t.Fatalf("persist: %v", err)
	}
	return snap
}

func TestFetchWithoutRows(t *testing.T) {
	store, _ := openStore(t, codec.JSON{}, "settings")
	snap, err := store.Fetch(context.Background())
	if err != nil || snap != nil {
		t.Fatalf("expected (nil, nil), got %v, %v", snap, err)
	}
}

func TestPersistReplacesAndFetchRestores(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t, codec.CBOR{}, "settings")
	persistSample(t, store, 4)
	want := persistSample(t, store, 2)

	got, err := store.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.ID != want.ID || !got.CapturedAt.Equal(want.CapturedAt) || got.Namespace != "settings" {
		t.Fatalf("unexpected header %+v", got)
	}
	if diff := persistencetest.DiffRecords(want.Records, got.Records); diff != "" {
		t.Fatalf("records mismatch: %s", diff)
	}
}

func TestEmptySnapshotIsStored(t *testing.T) {
	store, _ := openStore(t, codec.JSON{}, "settings")
	if err := store.Persist(context.Background(), &domain.Snapshot{ID: "empty", Records: []domain.RecordData{}}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, err := store.Fetch(context.Background())
	if err != nil || got == nil || got.Records == nil || len(got.Records) != 0 {
		t.Fatalf("expected empty non-nil records, got %+v, %v", got, err)
	}
}

func TestNamespacesAreIsolated(t *testing.T) {
	store, db := openStore(t, codec.JSON{}, "settings")
	persistSample(t, store, 3)
	other := snapshotsql.New(db, sqlite.Dialect, codec.JSON{}, "profiles")
	if snap, err := other.Fetch(context.Background()); err != nil || snap != nil {
		t.Fatalf("other namespace must be empty, got %v, %v", snap, err)
	}
}

func TestFetchDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"missing row":   `DELETE FROM snapshot_records WHERE slot = 2`,
		"slot gap":      `UPDATE snapshot_records SET slot = 7 WHERE slot = 1`,
		"bad time":      `UPDATE snapshot_meta SET captured_at = 'yesterday'`,
		"count drift":   `UPDATE snapshot_meta SET record_count = 9`,
		"bad payload":   `UPDATE snapshot_records SET payload = X'00' WHERE slot = 0`,
		"unknown codec": `UPDATE snapshot_meta SET codec = 'yaml'`,
	}
	for name, stmt := range cases {
		t.Run(name, func(t *testing.T) {
			store, db := openStore(t, codec.JSON{}, "settings")
			persistSample(t, store, 3)
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				t.Fatalf("corrupt: %v", err)
			}
			if _, err := store.Fetch(ctx); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	store, db := openStore(t, codec.JSON{}, "settings")
	persistSample(t, store, 3)
	if _, err := db.ExecContext(ctx, `DELETE FROM snapshot_records WHERE slot = 2`); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, err := store.Fetch(ctx); !errors.Is(err, snapshotsql.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}
