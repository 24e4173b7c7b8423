// Package memory provides the default in-process data adapter. It keeps the
// last produced snapshot in memory and is embedded by the durable adapters as
// their snapshot cache and restore path.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gameframework/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.DataAdapter = (*Adapter)(nil)

// ErrUnexpectedKind is returned when a target captures something other than
// a snapshot.
var ErrUnexpectedKind = errors.New("target produced unexpected data kind")

// Adapter retains the most recent snapshot for one namespace.
type Adapter struct {
	mu        sync.RWMutex
	namespace string
	snapshot  *domain.Snapshot
}

// NewAdapter constructs an empty adapter bound to namespace.
func NewAdapter(namespace string) *Adapter {
	return &Adapter{namespace: namespace}
}

// Name identifies the adapter kind.
func (a *Adapter) Name() string { return "memory" }

// Namespace returns the namespace the adapter is bound to.
func (a *Adapter) Namespace() string { return a.namespace }

// Capture asks target for its snapshot and returns a private clone.
func (a *Adapter) Capture(target domain.Target) (*domain.Snapshot, error) {
	if target == nil {
		return nil, errors.New("capture: nil target")
	}
	data := target.SerializableData()
	snap, ok := domain.AsSnapshot(data)
	if !ok {
		return nil, fmt.Errorf("capture %s: %w: %T", a.namespace, ErrUnexpectedKind, data)
	}
	out := snap.Clone()
	if out.Namespace == "" {
		out.Namespace = a.namespace
	}
	if out.Records == nil {
		out.Records = []domain.RecordData{}
	}
	return out, nil
}

// ProduceSnapshot implements domain.DataAdapter.
func (a *Adapter) ProduceSnapshot(_ context.Context, target domain.Target) (domain.SerializableData, error) {
	snap, err := a.Capture(target)
	if err != nil {
		return nil, err
	}
	a.ImportSnapshot(snap)
	return snap.Clone(), nil
}

// LoadSnapshot implements domain.DataAdapter. It returns (nil, nil) until a
// snapshot has been produced or imported.
func (a *Adapter) LoadSnapshot(_ context.Context) (domain.SerializableData, error) {
	snap := a.ExportSnapshot()
	if snap == nil {
		return nil, nil
	}
	return snap, nil
}

// RestoreFromSnapshot implements domain.DataAdapter.
func (a *Adapter) RestoreFromSnapshot(_ context.Context, target domain.Target, data domain.SerializableData) error {
	if target == nil {
		return errors.New("restore: nil target")
	}
	target.InitializeData(data)
	return nil
}

// ExportSnapshot returns a clone of the retained snapshot, or nil.
func (a *Adapter) ExportSnapshot() *domain.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot.Clone()
}

// ImportSnapshot replaces the retained snapshot with a clone of snap. A nil
// snap clears it.
func (a *Adapter) ImportSnapshot(snap *domain.Snapshot) {
	a.mu.Lock()
	a.snapshot = snap.Clone()
	a.mu.Unlock()
}
