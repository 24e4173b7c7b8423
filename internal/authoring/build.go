package authoring

import (
	"fmt"

	"gameframework/internal/core"
	"gameframework/internal/records"
	"gameframework/pkg/domain"
)

// RecordFactory creates the default record for an authored kind and name.
type RecordFactory func(kind, name string) (domain.Record, error)

// Build creates a database from layout. Each authored record is created by
// factory (records.New when nil), filled with its authored values and
// appended in order; default declarations are attached to the slots the
// records registered.
func Build(layout Layout, factory RecordFactory, opts ...core.Option) (*core.Database, error) {
	if layout.Database == "" {
		return nil, fmt.Errorf("layout has no database name")
	}
	if factory == nil {
		factory = records.New
	}
	db := core.NewDatabase(layout.Database, opts...)
	for i, rs := range layout.Records {
		rec, err := factory(rs.Kind, rs.Name)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s %q): %w", i, rs.Kind, rs.Name, err)
		}
		if rec == nil {
			return nil, fmt.Errorf("record %d (%s %q): %w", i, rs.Kind, rs.Name, core.ErrNilRecord)
		}
		data := rs.Data.Clone()
		if data.Type == "" {
			data.Type = rs.Kind
		}
		rec.FillFromSerializableData(data)
		if err := db.Append(rec); err != nil {
			return nil, fmt.Errorf("record %d (%s %q): %w", i, rs.Kind, rs.Name, err)
		}
	}
	for _, def := range layout.Defaults {
		if err := db.DeclareDefaults(def.Slot, def.Declaration()); err != nil {
			return nil, fmt.Errorf("defaults for %q: %w", def.Slot, err)
		}
	}
	return db, nil
}
