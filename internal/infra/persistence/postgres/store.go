// Package postgres provides a Postgres-backed data adapter using the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"gameframework/internal/codec"
	"gameframework/internal/infra/persistence/memory"
	"gameframework/internal/infra/persistence/snapshotsql"
	"gameframework/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ domain.DataAdapter = (*Adapter)(nil)

const (
	defaultDriver = "pgx"
	// DefaultDSN matches the configuration default.
	DefaultDSN = "postgres://localhost/gameframework?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Dialect is the Postgres flavour of the snapshot schema.
var Dialect = snapshotsql.Dialect{
	Name: "postgres",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			namespace TEXT PRIMARY KEY,
			snapshot_id TEXT NOT NULL,
			captured_at TIMESTAMPTZ NOT NULL,
			record_count BIGINT NOT NULL,
			codec TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_records (
			namespace TEXT NOT NULL,
			slot BIGINT NOT NULL,
			payload BYTEA NOT NULL,
			PRIMARY KEY (namespace, slot)
		)`,
	},
	SelectMeta:    `SELECT snapshot_id, captured_at, record_count, codec FROM snapshot_meta WHERE namespace = $1`,
	SelectRecords: `SELECT slot, payload FROM snapshot_records WHERE namespace = $1 ORDER BY slot`,
	DeleteRecords: `DELETE FROM snapshot_records WHERE namespace = $1`,
	UpsertMeta: `INSERT INTO snapshot_meta (namespace, snapshot_id, captured_at, record_count, codec) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (namespace) DO UPDATE SET snapshot_id = EXCLUDED.snapshot_id, captured_at = EXCLUDED.captured_at,
		record_count = EXCLUDED.record_count, codec = EXCLUDED.codec`,
	InsertRecord: `INSERT INTO snapshot_records (namespace, slot, payload) VALUES ($1, $2, $3)`,
	TimeValue: func(t time.Time) any {
		return t.UTC()
	},
}

// Adapter persists snapshots of one namespace into Postgres while reusing the
// memory adapter as cache and restore path.
type Adapter struct {
	*memory.Adapter
	db    *sql.DB
	store *snapshotsql.Store
	mu    sync.Mutex
}

// NewAdapter opens a connection using dsn (falling back to DefaultDSN),
// pings it and ensures the snapshot schema exists.
func NewAdapter(ctx context.Context, dsn, namespace string, c codec.Codec) (*Adapter, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	if c == nil {
		c = codec.JSON{}
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store := snapshotsql.New(db, Dialect, c, namespace)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Adapter{Adapter: memory.NewAdapter(namespace), db: db, store: store}, nil
}

// Name identifies the adapter kind.
func (a *Adapter) Name() string { return "postgres" }

// DB exposes the underlying sql.DB for integration testing hooks.
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
		return nil, fmt.Errorf("postgres persist %s: %w", a.Namespace(), err)
	}
	a.ImportSnapshot(snap)
	return snap, nil
}

// LoadSnapshot reads the stored snapshot; (nil, nil) when none exists.
func (a *Adapter) LoadSnapshot(ctx context.Context) (domain.SerializableData, error) {
	snap, err := a.store.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres load %s: %w", a.Namespace(), err)
	}
	if snap == nil {
		return nil, nil
	}
	a.ImportSnapshot(snap)
	return snap, nil
}

// Close releases the connection pool.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
