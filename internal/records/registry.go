// Package records holds the concrete record kinds shipped with gameframework
// and a kind to factory registry used when building databases from layouts.
package records

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gameframework/pkg/domain"
)

var (
	// ErrUnknownKind is returned by New for an unregistered kind.
	ErrUnknownKind = errors.New("unknown record kind")
	// ErrDuplicateKind is returned by Register when a kind is taken.
	ErrDuplicateKind = errors.New("record kind already registered")
)

// Factory creates a record in its default state. name is the authored label.
type Factory func(name string) domain.Record

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		KindAudioSettings:    func(name string) domain.Record { return NewAudioSettings(name) },
		KindGraphicsSettings: func(name string) domain.Record { return NewGraphicsSettings(name) },
		KindGameplaySettings: func(name string) domain.Record { return NewGameplaySettings(name) },
		KindArchetypeCatalog: func(name string) domain.Record { return NewArchetypeCatalog(name) },
	}
)

// Register adds a factory for kind.
func Register(kind string, factory Factory) error {
	if kind == "" || factory == nil {
		return fmt.Errorf("register %q: kind and factory are required", kind)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[kind]; exists {
		return fmt.Errorf("%s: %w", kind, ErrDuplicateKind)
	}
	registry[kind] = factory
	return nil
}

// New creates a default record of kind.
func New(kind, name string) (domain.Record, error) {
	registryMu.RLock()
	factory, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	return factory(name), nil
}

// Kinds lists the registered kinds in sorted order.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for kind := range registry {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// Labeled is implemented by records that carry an authored label.
type Labeled interface {
	Label() string
}
