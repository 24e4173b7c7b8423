// Package sqlite provides a SQLite-backed data adapter built on the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gameframework/internal/codec"
	"gameframework/internal/infra/persistence/memory"
	"gameframework/internal/infra/persistence/snapshotsql"
	"gameframework/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.DataAdapter = (*Adapter)(nil)

// DefaultPath is used when NewAdapter receives an empty path.
const DefaultPath = "gameframework.db"

// Dialect is the SQLite flavour of the snapshot schema.
var Dialect = snapshotsql.Dialect{
	Name: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			namespace TEXT PRIMARY KEY,
			snapshot_id TEXT NOT NULL,
			captured_at TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			codec TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_records (
			namespace TEXT NOT NULL,
			slot INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (namespace, slot)
		)`,
	},
	SelectMeta:    `SELECT snapshot_id, captured_at, record_count, codec FROM snapshot_meta WHERE namespace = ?`,
	SelectRecords: `SELECT slot, payload FROM snapshot_records WHERE namespace = ? ORDER BY slot`,
	DeleteRecords: `DELETE FROM snapshot_records WHERE namespace = ?`,
	UpsertMeta: `INSERT INTO snapshot_meta (namespace, snapshot_id, captured_at, record_count, codec) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET snapshot_id=excluded.snapshot_id, captured_at=excluded.captured_at,
		record_count=excluded.record_count, codec=excluded.codec`,
	InsertRecord: `INSERT INTO snapshot_records (namespace, slot, payload) VALUES (?, ?, ?)`,
	TimeValue: func(t time.Time) any {
		return t.UTC().Format(time.RFC3339Nano)
	},
}

// Adapter persists snapshots of one namespace into a SQLite file. The
// embedded memory adapter caches the last snapshot and performs restores.
type Adapter struct {
	*memory.Adapter
	db    *sql.DB
	store *snapshotsql.Store
	mu    sync.Mutex
	path  string
}

// NewAdapter opens (creating when needed) the database file at path and
// ensures the snapshot schema exists.
func NewAdapter(ctx context.Context, path, namespace string, c codec.Codec) (*Adapter, error) {
	if path == "" {
		path = DefaultPath
	}
	if c == nil {
		c = codec.JSON{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	store := snapshotsql.New(db, Dialect, c, namespace)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Adapter{Adapter: memory.NewAdapter(namespace), db: db, store: store, path: path}, nil
}

// Name identifies the adapter kind.
func (a *Adapter) Name() string { return "sqlite" }

// Path returns the database file path.
func (a *Adapter) Path() string { return a.path }

// DB exposes the underlying handle for tests.
func (a *Adapter) DB() *sql.DB { return a.db }

// ProduceSnapshot captures target and replaces the stored snapshot.
func (a *Adapter) ProduceSnapshot(ctx context.Context, target domain.Target) (domain.SerializableData, error) {
	snap, err := a.Capture(target)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Persist(ctx, snap); err != nil {
		return nil, fmt.Errorf("sqlite persist %s: %w", a.Namespace(), err)
	}
	a.ImportSnapshot(snap)
	return snap, nil
}

// LoadSnapshot reads the stored snapshot; (nil, nil) when none exists.
func (a *Adapter) LoadSnapshot(ctx context.Context) (domain.SerializableData, error) {
	snap, err := a.store.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite load %s: %w", a.Namespace(), err)
	}
	if snap == nil {
		return nil, nil
	}
	a.ImportSnapshot(snap)
	return snap, nil
}

// Close releases the database handle.
func (a *Adapter) Close() error {
	return a.db.Close()
}
