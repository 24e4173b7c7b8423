package core

import (
	"context"
	"fmt"

	"gameframework/pkg/domain"
)

// SerializableData captures every record, in index order, into a snapshot.
func (db *Database) SerializableData() domain.SerializableData {
	records := make([]domain.RecordData, len(db.records))
	for i, rec := range db.records {
		records[i] = rec.SerializableData()
	}
	return &domain.Snapshot{
		ID:         db.newID(),
		Namespace:  db.name,
		CapturedAt: db.clock.Now(),
		Records:    records,
	}
}

// FillFromSerializableData restores records from data by position. An absent
// snapshot or record sequence and a value of another kind leave the database
// untouched. Entries past the last live record are ignored, and live records
// past the end of the snapshot keep their state.
func (db *Database) FillFromSerializableData(data domain.SerializableData) {
	if data == nil {
		db.logger.Warn("restore skipped: snapshot absent", "database", db.name)
		return
	}
	snap, ok := data.(*domain.Snapshot)
	if !ok {
		db.logger.Warn("restore skipped: unexpected snapshot kind",
			"database", db.name,
			"kind", data.Kind(),
			"type", fmt.Sprintf("%T", data),
		)
		return
	}
	if snap == nil {
		db.logger.Warn("restore skipped: snapshot absent", "database", db.name)
		return
	}
	if snap.Records == nil {
		db.logger.Warn("restore skipped: snapshot has no record sequence", "database", db.name, "snapshot", snap.ID)
		return
	}
	applied := 0
	for i := 0; i < len(snap.Records); i++ {
		if !db.IsValidIndex(i) {
			db.logger.Debug("restore truncated: snapshot longer than database",
				"database", db.name,
				"dropped", len(snap.Records)-i,
			)
			break
		}
		db.records[i].FillFromSerializableData(snap.Records[i])
		applied++
	}
	db.logger.Debug("restore applied", "database", db.name, "snapshot", snap.ID, "applied", applied, "records", len(db.records))
}

// InitializeData restores from data when it is present and otherwise keeps
// the authored defaults.
func (db *Database) InitializeData(data domain.SerializableData) {
	if data == nil {
		db.logger.Debug("initialize: no snapshot, keeping defaults", "database", db.name)
		return
	}
	db.FillFromSerializableData(data)
}

// Uninitialize is a no-op; a database holds nothing that needs releasing.
func (db *Database) Uninitialize() {}

// Save captures the database and persists it through the data adapter.
func (db *Database) Save(ctx context.Context) (domain.SerializableData, error) {
	var persisted domain.SerializableData
	err := db.instrument(ctx, OperationSave, func(ctx context.Context) error {
		data, err := db.DataAdapter().ProduceSnapshot(ctx, db)
		if err != nil {
			return fmt.Errorf("save %s: %w", db.name, err)
		}
		persisted = data
		return nil
	})
	if err != nil {
		db.logger.Error("save failed", "database", db.name, "error", err)
		return nil, err
	}
	db.logger.Info("database saved", "database", db.name, "records", len(db.records))
	return persisted, nil
}

// Load reads the persisted snapshot through the data adapter and restores
// from it. Nothing persisted keeps the current records unchanged.
func (db *Database) Load(ctx context.Context) error {
	err := db.instrument(ctx, OperationLoad, func(ctx context.Context) error {
		adapter := db.DataAdapter()
		data, err := adapter.LoadSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", db.name, err)
		}
		if err := adapter.RestoreFromSnapshot(ctx, db, data); err != nil {
			return fmt.Errorf("restore %s: %w", db.name, err)
		}
		return nil
	})
	if err != nil {
		db.logger.Error("load failed", "database", db.name, "error", err)
		return err
	}
	db.logger.Info("database loaded", "database", db.name, "records", len(db.records))
	return nil
}
