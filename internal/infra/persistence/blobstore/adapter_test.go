package blobstore

import (
	"bytes"
	"context"
	"testing"

	"gameframework/internal/blob"
	"gameframework/internal/codec"
	"gameframework/internal/infra/persistence/persistencetest"
	"gameframework/pkg/domain"
)

func TestAdapterContract(t *testing.T) {
	stores := map[string]func() blob.Store{
		"memory": blob.NewMemory,
		"s3":     blob.NewMockS3ForTests,
	}
	for storeName, newStore := range stores {
		for _, codecName := range codec.Names() {
			t.Run(storeName+"/"+codecName, func(t *testing.T) {
				c, _ := codec.ByName(codecName)
				store := newStore()
				persistencetest.RunAdapterContract(t, func(t *testing.T, namespace string) domain.DataAdapter {
					a, err := NewAdapter(store, namespace, c)
					if err != nil {
						t.Fatalf("new adapter: %v", err)
					}
					return a
				})
			})
		}
	}
}

func TestAdapterOnFilesystem(t *testing.T) {
	store, err := blob.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("fs: %v", err)
	}
	persistencetest.RunAdapterContract(t, func(t *testing.T, namespace string) domain.DataAdapter {
		a, err := NewAdapter(store, namespace, codec.CBOR{})
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		return a
	})
}

func TestCodecSwitchReadsAndReplacesObject(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	first, _ := NewAdapter(store, "settings", codec.MessagePack{})
	source := persistencetest.NewTarget("settings", 3)
	if _, err := first.ProduceSnapshot(ctx, source); err != nil {
		t.Fatalf("produce: %v", err)
	}
	if first.Key() != "settings/snapshot.msgpack" {
		t.Fatalf("unexpected key %s", first.Key())
	}
	head, err := store.Head(ctx, first.Key())
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.ContentType != "application/msgpack" || head.Metadata["codec"] != "msgpack" {
		t.Fatalf("unexpected object info %+v", head)
	}

	second, _ := NewAdapter(store, "settings", nil)
	loaded, err := second.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	snap, ok := domain.AsSnapshot(loaded)
	if !ok {
		t.Fatalf("expected snapshot, got %#v", loaded)
	}
	if diff := persistencetest.DiffRecords(source.Records, snap.Records); diff != "" {
		t.Fatalf("cross-codec mismatch: %s", diff)
	}

	if _, err := second.ProduceSnapshot(ctx, persistencetest.NewTarget("settings", 1)); err != nil {
		t.Fatalf("produce json: %v", err)
	}
	objects, err := store.List(ctx, "settings/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objects) != 1 || objects[0].Key != "settings/snapshot.json" {
		t.Fatalf("expected only the json object, got %+v", objects)
	}
}

func TestUnknownObjectsAreIgnored(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	if _, err := store.Put(ctx, "settings/snapshot.yaml", bytes.NewReader([]byte("x: 1")), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	a, _ := NewAdapter(store, "settings", nil)
	data, err := a.LoadSnapshot(ctx)
	if err != nil || data != nil {
		t.Fatalf("expected absent snapshot, got %#v, %v", data, err)
	}
}

func TestCorruptObjectFailsLoad(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	if _, err := store.Put(ctx, "settings/snapshot.json", bytes.NewReader([]byte("{not json")), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	a, _ := NewAdapter(store, "settings", nil)
	if _, err := a.LoadSnapshot(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
	if a.ExportSnapshot() != nil {
		t.Fatalf("failed load must not populate the cache")
	}
}

func TestNewAdapterValidates(t *testing.T) {
	if _, err := NewAdapter(nil, "ns", nil); err == nil {
		t.Fatalf("expected nil store error")
	}
	if _, err := NewAdapter(blob.NewMemory(), " ", nil); err == nil {
		t.Fatalf("expected namespace error")
	}
	a, err := NewAdapter(blob.NewMemory(), "ns", nil)
	if err != nil || a.Name() != "blob" {
		t.Fatalf("unexpected adapter %v, %v", a, err)
	}
	var target domain.Target
	if _, err := a.ProduceSnapshot(context.Background(), target); err == nil {
		t.Fatalf("expected nil target error")
	}
}
