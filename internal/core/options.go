package core

import (
	"gameframework/pkg/domain"

	"github.com/google/uuid"
)

// Option configures a Database at construction.
type Option func(*Database)

// AdapterFactory builds the default adapter for a database namespace.
type AdapterFactory func(namespace string) domain.DataAdapter

// WithLogger sets the diagnostic logger. A nil logger keeps the no-op default.
func WithLogger(logger Logger) Option {
	return func(db *Database) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// WithClock overrides the clock used for snapshot timestamps.
func WithClock(clock Clock) Option {
	return func(db *Database) {
		if clock != nil {
			db.clock = clock
		}
	}
}

// WithIDGenerator overrides the snapshot identifier generator.
func WithIDGenerator(gen func() string) Option {
	return func(db *Database) {
		if gen != nil {
			db.newID = gen
		}
	}
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(db *Database) {
		if recorder != nil {
			db.metrics = recorder
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) Option {
	return func(db *Database) {
		if tracer != nil {
			db.tracer = tracer
		}
	}
}

// WithDataAdapter sets the adapter explicitly, bypassing the lazy default.
func WithDataAdapter(adapter domain.DataAdapter) Option {
	return func(db *Database) {
		db.adapter = adapter
	}
}

// WithDefaultAdapterFactory replaces the factory used to build the lazy
// default adapter.
func WithDefaultAdapterFactory(factory AdapterFactory) Option {
	return func(db *Database) {
		if factory != nil {
			db.defaultAdapter = factory
		}
	}
}

// WithArchetypeSlot registers an archetype slot at construction. Registration
// errors are logged and the slot is dropped.
func WithArchetypeSlot(slot domain.ArchetypeSlot) Option {
	return func(db *Database) {
		if err := db.RegisterArchetypeSlot(slot); err != nil {
			db.logger.Warn("archetype slot rejected", "slot", slot.Name, "error", err)
		}
	}
}

// WithRecords appends records at construction.
func WithRecords(records ...domain.Record) Option {
	return func(db *Database) {
		if err := db.Append(records...); err != nil {
			db.logger.Warn("initial records rejected", "error", err)
		}
	}
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
