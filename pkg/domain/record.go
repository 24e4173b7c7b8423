// Package domain defines the contracts shared by the game-data database, its
// records and the persistence adapters it delegates to. It carries no
// storage or codec knowledge; concrete implementations live under internal/.
package domain

// DataKind identifies the shape of a SerializableData value.
type DataKind string

const (
	// KindRecord marks the persisted form of a single record.
	KindRecord DataKind = "record"
	// KindSnapshot marks the persisted form of a whole database.
	KindSnapshot DataKind = "snapshot"
)

// SerializableData is implemented by every persisted value exchanged between
// a database, its records and an adapter.
type SerializableData interface {
	Kind() DataKind
}

// Record is one opaque game-data entry owned by a database. A record must be
// able to produce and accept its persisted form even while its state is the
// zero/default state.
type Record interface {
	SerializableData() RecordData
	FillFromSerializableData(data RecordData)
}

// RecordData is the codec-agnostic persisted form of one record. Values holds
// plain JSON-compatible data (strings, numbers, bools, nested []any and
// map[string]any); use the typed accessors to read it back independent of the
// codec that produced it.
type RecordData struct {
	Type    string         `json:"type" msgpack:"type" cbor:"type"`
	Version int            `json:"version,omitempty" msgpack:"version,omitempty" cbor:"version,omitempty"`
	Values  map[string]any `json:"values,omitempty" msgpack:"values,omitempty" cbor:"values,omitempty"`
}

// Kind implements SerializableData.
func (RecordData) Kind() DataKind { return KindRecord }

// NewRecordData returns an empty value bag for the given record type.
func NewRecordData(recordType string, version int) RecordData {
	return RecordData{Type: recordType, Version: version, Values: make(map[string]any)}
}

// Set stores value under key, allocating the bag when needed.
func (d *RecordData) Set(key string, value any) {
	if d.Values == nil {
		d.Values = make(map[string]any)
	}
	d.Values[key] = value
}

// Has reports whether key is present in the bag.
func (d RecordData) Has(key string) bool {
	_, ok := d.Values[key]
	return ok
}

// Clone returns a deep copy of the record data.
func (d RecordData) Clone() RecordData {
	out := RecordData{Type: d.Type, Version: d.Version}
	if d.Values != nil {
		out.Values = cloneMap(d.Values)
	}
	return out
}
