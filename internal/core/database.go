// Package core implements the game-data database: an ordered registry of
// records, its whole-collection snapshot, the swappable persistence adapter
// and the default-population pass.
package core

import (
	"fmt"

	"gameframework/internal/infra/persistence/memory"
	"gameframework/pkg/domain"
)

// Database is an insertion-ordered, index-addressable collection of records.
// It owns its records exclusively and is not safe for concurrent use; callers
// serialize access.
type Database struct {
	name    string
	records []domain.Record

	adapter        domain.DataAdapter
	defaultAdapter AdapterFactory

	slots     []slotEntry
	slotIndex map[string]int

	logger  Logger
	clock   Clock
	newID   func() string
	metrics MetricsRecorder
	tracer  Tracer
}

var _ domain.Target = (*Database)(nil)

// NewDatabase constructs an empty database. The name doubles as the adapter
// namespace.
func NewDatabase(name string, opts ...Option) *Database {
	db := &Database{
		name:           name,
		defaultAdapter: func(namespace string) domain.DataAdapter { return memory.NewAdapter(namespace) },
		slotIndex:      make(map[string]int),
		logger:         noopLogger{},
		clock:          systemClock{},
		newID:          defaultIDGenerator,
		metrics:        noopMetricsRecorder{},
		tracer:         noopTracer{},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Name returns the database name.
func (db *Database) Name() string { return db.name }

// Len returns the number of records.
func (db *Database) Len() int { return len(db.records) }

// IsValidIndex reports whether 0 <= i < Len().
func (db *Database) IsValidIndex(i int) bool {
	return i >= 0 && i < len(db.records)
}

// At returns the record at index i, or false when i is not a valid index.
func (db *Database) At(i int) (domain.Record, bool) {
	if !db.IsValidIndex(i) {
		return nil, false
	}
	return db.records[i], true
}

// RecordAs returns the record at index i narrowed to T. The zero value and
// false are returned for an invalid index or a record of another type.
func RecordAs[T any](db *Database, i int) (T, bool) {
	var zero T
	rec, ok := db.At(i)
	if !ok {
		return zero, false
	}
	typed, ok := rec.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// IsInitialized reports whether the database holds at least one record. An
// empty database counts as not initialized.
func (db *Database) IsInitialized() bool {
	return len(db.records) > 0
}

// Records returns the records in index order. The slice is a copy; the
// records themselves are shared.
func (db *Database) Records() []domain.Record {
	out := make([]domain.Record, len(db.records))
	copy(out, db.records)
	return out
}

// Append adds records at the end in order. Records implementing
// domain.ArchetypeSlotProvider have their slots registered.
func (db *Database) Append(records ...domain.Record) error {
	for i, rec := range records {
		if rec == nil {
			return fmt.Errorf("append record %d: %w", i, ErrNilRecord)
		}
	}
	for _, rec := range records {
		db.records = append(db.records, rec)
		db.registerProviderSlots(rec)
	}
	return nil
}

// Insert places rec at index i, shifting later records up. i may equal Len().
func (db *Database) Insert(i int, rec domain.Record) error {
	if rec == nil {
		return ErrNilRecord
	}
	if i < 0 || i > len(db.records) {
		return fmt.Errorf("insert at %d: %w", i, ErrIndexOutOfRange)
	}
	db.records = append(db.records, nil)
	copy(db.records[i+1:], db.records[i:])
	db.records[i] = rec
	db.registerProviderSlots(rec)
	return nil
}

// RemoveAt deletes and returns the record at index i. Archetype slots the
// record registered stay registered.
func (db *Database) RemoveAt(i int) (domain.Record, bool) {
	if !db.IsValidIndex(i) {
		return nil, false
	}
	rec := db.records[i]
	copy(db.records[i:], db.records[i+1:])
	db.records[len(db.records)-1] = nil
	db.records = db.records[:len(db.records)-1]
	return rec, true
}

// Move relocates the record at from so that it ends up at index to.
func (db *Database) Move(from, to int) bool {
	if !db.IsValidIndex(from) || !db.IsValidIndex(to) {
		return false
	}
	if from == to {
		return true
	}
	rec := db.records[from]
	if from < to {
		copy(db.records[from:to], db.records[from+1:to+1])
	} else {
		copy(db.records[to+1:from+1], db.records[to:from])
	}
	db.records[to] = rec
	return true
}

func (db *Database) registerProviderSlots(rec domain.Record) {
	provider, ok := rec.(domain.ArchetypeSlotProvider)
	if !ok {
		return
	}
	for _, slot := range provider.ArchetypeSlots() {
		if err := db.RegisterArchetypeSlot(slot); err != nil {
			db.logger.Warn("archetype slot not registered", "database", db.name, "slot", slot.Name, "error", err)
		}
	}
}
