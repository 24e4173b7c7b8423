// Package blobstore persists whole snapshots as single objects in a blob
// store, one object per namespace named <namespace>/snapshot.<codec>.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"gameframework/internal/blob"
	"gameframework/internal/codec"
	"gameframework/internal/infra/persistence/memory"
	"gameframework/pkg/domain"
)

var _ domain.DataAdapter = (*Adapter)(nil)

const objectBase = "snapshot"

// Adapter writes snapshots of one namespace through a blob.Store.
type Adapter struct {
	*memory.Adapter
	store blob.Store
	codec codec.Codec
	mu    sync.Mutex
}

// NewAdapter binds namespace to store. A nil codec selects JSON.
func NewAdapter(store blob.Store, namespace string, c codec.Codec) (*Adapter, error) {
	if store == nil {
		return nil, errors.New("blob store is required")
	}
	if strings.TrimSpace(namespace) == "" {
		return nil, errors.New("namespace is required")
	}
	if c == nil {
		c = codec.JSON{}
	}
	return &Adapter{Adapter: memory.NewAdapter(namespace), store: store, codec: c}, nil
}

// Name identifies the adapter kind.
func (a *Adapter) Name() string { return "blob" }

// Key returns the object key written by ProduceSnapshot.
func (a *Adapter) Key() string { return a.prefix() + a.codec.Name() }

func (a *Adapter) prefix() string { return path.Join(a.Namespace(), objectBase) + "." }

// ProduceSnapshot captures target, overwrites the namespace object and removes
// objects left behind by other codecs.
func (a *Adapter) ProduceSnapshot(ctx context.Context, target domain.Target) (domain.SerializableData, error) {
	snap, err := a.Capture(target)
	if err != nil {
		return nil, err
	}
	payload, err := a.codec.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", a.Namespace(), err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	key := a.Key()
	_, err = a.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: a.codec.ContentType(),
		Metadata:    map[string]string{"codec": a.codec.Name(), "snapshot-id": snap.ID},
		Overwrite:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("write snapshot %s: %w", key, err)
	}
	stale, err := a.store.List(ctx, a.prefix())
	if err != nil {
		return nil, fmt.Errorf("list snapshots %s: %w", a.Namespace(), err)
	}
	for _, info := range stale {
		if info.Key == key {
			continue
		}
		if _, err := a.store.Delete(ctx, info.Key); err != nil {
			return nil, fmt.Errorf("delete stale snapshot %s: %w", info.Key, err)
		}
	}
	a.ImportSnapshot(snap)
	return snap, nil
}

// LoadSnapshot reads the namespace object; (nil, nil) when none exists. An
// object written by another codec is decoded with that codec.
func (a *Adapter) LoadSnapshot(ctx context.Context) (domain.SerializableData, error) {
	key, dec, err := a.locate(ctx)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, nil
	}
	_, rc, err := a.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	var snap domain.Snapshot
	if err := dec.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	if snap.Records == nil {
		snap.Records = []domain.RecordData{}
	}
	snap.Namespace = a.Namespace()
	a.ImportSnapshot(&snap)
	return &snap, nil
}

// locate prefers the configured codec's object and falls back to the first
// object another known codec wrote.
func (a *Adapter) locate(ctx context.Context) (string, codec.Codec, error) {
	infos, err := a.store.List(ctx, a.prefix())
	if err != nil {
		return "", nil, fmt.Errorf("list snapshots %s: %w", a.Namespace(), err)
	}
	candidates := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Key == a.Key() {
			return info.Key, a.codec, nil
		}
		candidates = append(candidates, info.Key)
	}
	sort.Strings(candidates)
	for _, key := range candidates {
		if c, err := codec.ByName(strings.TrimPrefix(key, a.prefix())); err == nil {
			return key, c, nil
		}
	}
	return "", nil, nil
}
