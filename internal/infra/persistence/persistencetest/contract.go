// Package persistencetest holds the behavioural suite every data adapter must
// pass, plus a minimal domain.Target used to drive it.
package persistencetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gameframework/pkg/domain"
)

// Target is an in-memory domain.Target whose records are plain RecordData.
type Target struct {
	Namespace   string
	Records     []domain.RecordData
	Fills       int
	Initializes int
}

// NewTarget returns a target holding n sample records.
func NewTarget(namespace string, n int) *Target {
	t := &Target{Namespace: namespace}
	for i := 0; i < n; i++ {
		t.Records = append(t.Records, SampleRecord(i))
	}
	return t
}

// SampleRecord builds a deterministic record for slot i.
func SampleRecord(i int) domain.RecordData {
	rec := domain.NewRecordData("setting", 1)
	rec.Set("key", fmt.Sprintf("k%d", i))
	rec.Set("value", float64(i)*1.5)
	rec.Set("enabled", i%2 == 0)
	return rec
}

// SerializableData implements domain.Target.
func (t *Target) SerializableData() domain.SerializableData {
	records := make([]domain.RecordData, len(t.Records))
	for i, rec := range t.Records {
		records[i] = rec.Clone()
	}
	return &domain.Snapshot{
		ID:         fmt.Sprintf("%s-%d", t.Namespace, len(records)),
		Namespace:  t.Namespace,
		CapturedAt: time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC),
		Records:    records,
	}
}

// FillFromSerializableData implements domain.Target by replacing the records.
func (t *Target) FillFromSerializableData(data domain.SerializableData) {
	snap, ok := domain.AsSnapshot(data)
	if !ok || snap.Records == nil {
		return
	}
	t.Fills++
	t.Records = snap.Clone().Records
}

// InitializeData implements domain.Target.
func (t *Target) InitializeData(data domain.SerializableData) {
	t.Initializes++
	if data != nil {
		t.FillFromSerializableData(data)
	}
}

// Uninitialize implements domain.Target.
func (t *Target) Uninitialize() {}

// IsInitialized implements domain.Target.
func (t *Target) IsInitialized() bool { return len(t.Records) > 0 }

// DiffRecords compares two record sequences independent of the numeric types
// a codec decoded into. It returns an empty string when they match.
func DiffRecords(want, got []domain.RecordData) string {
	if len(want) != len(got) {
		return fmt.Sprintf("length: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.Type != g.Type || w.Version != g.Version {
			return fmt.Sprintf("record %d header: want %s/v%d, got %s/v%d", i, w.Type, w.Version, g.Type, g.Version)
		}
		if len(w.Values) != len(g.Values) {
			return fmt.Sprintf("record %d: want %d values, got %d", i, len(w.Values), len(g.Values))
		}
		for key, wv := range w.Values {
			gv, ok := g.Values[key]
			if !ok {
				return fmt.Sprintf("record %d: missing %q", i, key)
			}
			if !sameValue(wv, gv) {
				return fmt.Sprintf("record %d %q: want %v (%T), got %v (%T)", i, key, wv, wv, gv, gv)
			}
		}
	}
	return ""
}

func sameValue(a, b any) bool {
	if af, ok := domain.ToFloat(a); ok {
		bf, ok := domain.ToFloat(b)
		return ok && af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Factory opens a fresh adapter bound to namespace. Adapters created by the
// same factory within one test share their backing store.
type Factory func(t *testing.T, namespace string) domain.DataAdapter

// RunAdapterContract exercises the domain.DataAdapter behaviour shared by all
// adapters.
func RunAdapterContract(t *testing.T, open Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent snapshot loads as nil", func(t *testing.T) {
		adapter := open(t, "absent")
		data, err := adapter.LoadSnapshot(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if data != nil {
			t.Fatalf("expected nil snapshot, got %#v", data)
		}
		target := NewTarget("absent", 2)
		if err := adapter.RestoreFromSnapshot(ctx, target, data); err != nil {
			t.Fatalf("restore: %v", err)
		}
		if target.Fills != 0 || target.Initializes != 1 || len(target.Records) != 2 {
			t.Fatalf("absent snapshot must keep defaults: %+v", target)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		adapter := open(t, "roundtrip")
		source := NewTarget("roundtrip", 3)
		produced, err := adapter.ProduceSnapshot(ctx, source)
		if err != nil {
			t.Fatalf("produce: %v", err)
		}
		snap, ok := domain.AsSnapshot(produced)
		if !ok || snap.Len() != 3 {
			t.Fatalf("unexpected produced data %#v", produced)
		}
		loaded, err := adapter.LoadSnapshot(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		got, ok := domain.AsSnapshot(loaded)
		if !ok {
			t.Fatalf("expected snapshot, got %#v", loaded)
		}
		if got.ID != snap.ID || got.Namespace != "roundtrip" || !got.CapturedAt.Equal(snap.CapturedAt) {
			t.Fatalf("header mismatch: %+v vs %+v", got, snap)
		}
		if diff := DiffRecords(source.Records, got.Records); diff != "" {
			t.Fatalf("records mismatch: %s", diff)
		}
		dest := &Target{Namespace: "roundtrip"}
		if err := adapter.RestoreFromSnapshot(ctx, dest, loaded); err != nil {
			t.Fatalf("restore: %v", err)
		}
		if diff := DiffRecords(source.Records, dest.Records); diff != "" {
			t.Fatalf("restored mismatch: %s", diff)
		}
	})

	t.Run("empty snapshot is present", func(t *testing.T) {
		adapter := open(t, "empty")
		if _, err := adapter.ProduceSnapshot(ctx, NewTarget("empty", 0)); err != nil {
			t.Fatalf("produce: %v", err)
		}
		loaded, err := adapter.LoadSnapshot(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		snap, ok := domain.AsSnapshot(loaded)
		if !ok || snap.Records == nil || snap.Len() != 0 {
			t.Fatalf("expected present empty snapshot, got %#v", loaded)
		}
	})

	t.Run("overwrite drops stale slots", func(t *testing.T) {
		adapter := open(t, "overwrite")
		if _, err := adapter.ProduceSnapshot(ctx, NewTarget("overwrite", 4)); err != nil {
			t.Fatalf("produce 4: %v", err)
		}
		if _, err := adapter.ProduceSnapshot(ctx, NewTarget("overwrite", 2)); err != nil {
			t.Fatalf("produce 2: %v", err)
		}
		loaded, err := adapter.LoadSnapshot(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		snap, _ := domain.AsSnapshot(loaded)
		if snap.Len() != 2 {
			t.Fatalf("expected 2 records after overwrite, got %d", snap.Len())
		}
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		first := open(t, "alpha")
		second := open(t, "beta")
		if _, err := first.ProduceSnapshot(ctx, NewTarget("alpha", 1)); err != nil {
			t.Fatalf("produce alpha: %v", err)
		}
		data, err := second.LoadSnapshot(ctx)
		if err != nil {
			t.Fatalf("load beta: %v", err)
		}
		if data != nil {
			t.Fatalf("beta must not see alpha's snapshot: %#v", data)
		}
	})
}
