package domain

import "context"

// Target is the persistence surface a database exposes to its host and to
// adapters.
type Target interface {
	// SerializableData captures the current state.
	SerializableData() SerializableData
	// FillFromSerializableData restores state from data on a best-effort basis.
	FillFromSerializableData(data SerializableData)
	// InitializeData restores from data when present and keeps configured
	// defaults otherwise.
	InitializeData(data SerializableData)
	// Uninitialize releases nothing today; callers still pair it with
	// InitializeData.
	Uninitialize()
	// IsInitialized reports whether the target holds any records.
	IsInitialized() bool
}

// DataAdapter is the pluggable strategy a database delegates durable storage
// to. Implementations are bound to a namespace chosen at construction.
type DataAdapter interface {
	// ProduceSnapshot captures target and persists the captured snapshot,
	// returning what was persisted.
	ProduceSnapshot(ctx context.Context, target Target) (SerializableData, error)
	// LoadSnapshot returns the persisted snapshot, or (nil, nil) when nothing
	// has been persisted for the namespace.
	LoadSnapshot(ctx context.Context) (SerializableData, error)
	// RestoreFromSnapshot pushes data into target. A nil data keeps the
	// target's defaults.
	RestoreFromSnapshot(ctx context.Context, target Target, data SerializableData) error
}
