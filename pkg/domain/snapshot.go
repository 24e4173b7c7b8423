package domain

import "time"

// Snapshot is the persisted form of a whole database: one RecordData per
// record, index-aligned with the database at capture time. Position is the
// only correlation key between an entry and a record.
//
// A nil Records slice means the snapshot carries no record sequence and is
// treated as absent on restore; an empty non-nil slice is a valid snapshot of
// an empty database.
type Snapshot struct {
	ID         string       `json:"id,omitempty" msgpack:"id,omitempty" cbor:"id,omitempty"`
	Namespace  string       `json:"namespace,omitempty" msgpack:"namespace,omitempty" cbor:"namespace,omitempty"`
	CapturedAt time.Time    `json:"captured_at" msgpack:"captured_at" cbor:"captured_at"`
	Records    []RecordData `json:"records" msgpack:"records" cbor:"records"`
}

// Kind implements SerializableData.
func (*Snapshot) Kind() DataKind { return KindSnapshot }

// Len returns the number of record entries; zero for a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Clone returns a deep copy of the snapshot. Cloning nil returns nil and a
// nil Records slice stays nil.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{ID: s.ID, Namespace: s.Namespace, CapturedAt: s.CapturedAt}
	if s.Records != nil {
		out.Records = make([]RecordData, len(s.Records))
		for i, rec := range s.Records {
			out.Records[i] = rec.Clone()
		}
	}
	return out
}

// AsSnapshot narrows data to a non-nil *Snapshot.
func AsSnapshot(data SerializableData) (*Snapshot, bool) {
	snap, ok := data.(*Snapshot)
	if !ok || snap == nil {
		return nil, false
	}
	return snap, true
}
