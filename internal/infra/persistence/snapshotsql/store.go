// Package snapshotsql persists namespaced snapshots into two relational
// tables through database/sql. The sqlite and postgres adapters share it and
// differ only in their Dialect.
package snapshotsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gameframework/internal/codec"
	"gameframework/pkg/domain"
)

// Dialect carries the statements for one SQL engine. Statements take the
// namespace as their first argument.
type Dialect struct {
	Name   string
	Schema []string
	// SelectMeta returns snapshot_id, captured_at, record_count, codec.
	SelectMeta string
	// SelectRecords returns slot, payload ordered by slot.
	SelectRecords string
	DeleteRecords string
	// UpsertMeta takes namespace, snapshot_id, captured_at, record_count, codec.
	UpsertMeta string
	// InsertRecord takes namespace, slot, payload.
	InsertRecord string
	// TimeValue converts a capture time into the driver value stored in
	// captured_at.
	TimeValue func(time.Time) any
}

// ErrCorrupt is returned when stored rows disagree with their metadata.
var ErrCorrupt = errors.New("stored snapshot is corrupt")

// Store reads and writes the snapshot of one namespace.
type Store struct {
	db        *sql.DB
	dialect   Dialect
	codec     codec.Codec
	namespace string
}

// New binds a store to db. The schema is not touched; call EnsureSchema.
func New(db *sql.DB, dialect Dialect, c codec.Codec, namespace string) *Store {
	return &Store{db: db, dialect: dialect, codec: c, namespace: namespace}
}

// EnsureSchema creates the snapshot tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", s.dialect.Name, err)
		}
	}
	return nil
}

// Persist replaces the stored snapshot of the namespace in one transaction.
func (s *Store) Persist(ctx context.Context, snap *domain.Snapshot) (retErr error) {
	payloads := make([][]byte, len(snap.Records))
	for i, rec := range snap.Records {
		data, err := s.codec.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		payloads[i] = data
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, s.dialect.DeleteRecords, s.namespace); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.UpsertMeta,
		s.namespace, snap.ID, s.dialect.TimeValue(snap.CapturedAt), int64(len(snap.Records)), s.codec.Name(),
	); err != nil {
		return fmt.Errorf("upsert meta: %w", err)
	}
	for i, payload := range payloads {
		if _, err := tx.ExecContext(ctx, s.dialect.InsertRecord, s.namespace, int64(i), payload); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Fetch returns the stored snapshot, or nil when the namespace has none.
// Payloads are decoded with the codec recorded at save time.
func (s *Store) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	var (
		id        string
		captured  any
		count     int64
		codecName string
	)
	err := s.db.QueryRowContext(ctx, s.dialect.SelectMeta, s.namespace).Scan(&id, &captured, &count, &codecName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select meta: %w", err)
	}
	capturedAt, err := parseTime(captured)
	if err != nil {
		return nil, err
	}
	dec, err := codec.ByName(codecName)
	if err != nil {
		return nil, fmt.Errorf("stored snapshot: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.SelectRecords, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer func() { _ = rows.Close() }()
	snap := &domain.Snapshot{ID: id, Namespace: s.namespace, CapturedAt: capturedAt, Records: make([]domain.RecordData, 0, count)}
	for rows.Next() {
		var (
			slot    int64
			payload []byte
		)
		if err := rows.Scan(&slot, &payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if slot != int64(len(snap.Records)) {
			return nil, fmt.Errorf("%w: slot %d out of sequence", ErrCorrupt, slot)
		}
		var rec domain.RecordData
		if err := dec.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", slot, err)
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	if int64(len(snap.Records)) != count {
		return nil, fmt.Errorf("%w: %d records stored, meta says %d", ErrCorrupt, len(snap.Records), count)
	}
	return snap, nil
}

func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	default:
		return time.Time{}, fmt.Errorf("%w: captured_at has type %T", ErrCorrupt, v)
	}
}

func parseTimeString(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: captured_at %q", ErrCorrupt, s)
	}
	return t.UTC(), nil
}
