package core

import (
	"testing"

	"gameframework/internal/infra/persistence/memory"
	"gameframework/pkg/domain"
)

func TestDefaultAdapterIsLazyAndPerInstance(t *testing.T) {
	built := 0
	factory := func(namespace string) domain.DataAdapter {
		built++
		return memory.NewAdapter(namespace)
	}
	first := NewDatabase("a", WithDefaultAdapterFactory(factory))
	second := NewDatabase("b", WithDefaultAdapterFactory(factory))
	if built != 0 {
		t.Fatalf("adapter must not be built before first access")
	}
	a1 := first.DataAdapter()
	if a1 != first.DataAdapter() {
		t.Fatalf("adapter must be cached per database")
	}
	if built != 1 {
		t.Fatalf("expected one build, got %d", built)
	}
	if second.DataAdapter() == a1 {
		t.Fatalf("databases must not share a default adapter")
	}
	if mem, ok := a1.(*memory.Adapter); !ok || mem.Namespace() != "a" {
		t.Fatalf("default adapter bound to wrong namespace: %#v", a1)
	}
}

func TestSetDataAdapterReplacesAndResets(t *testing.T) {
	logger := &captureLogger{}
	db, recs := settingsDatabase(1)
	db.logger = logger
	custom := &stubAdapter{}
	db.SetDataAdapter(custom)
	if db.DataAdapter() != custom {
		t.Fatalf("expected custom adapter")
	}
	if recs[0].level != 1 || db.Len() != 1 {
		t.Fatalf("swapping adapters must not touch records")
	}
	db.SetDataAdapter(nil)
	if _, ok := db.DataAdapter().(*memory.Adapter); !ok {
		t.Fatalf("nil must restore the lazy default")
	}
	entry, ok := logger.find("debug", "default data adapter")
	if !ok {
		t.Fatalf("expected adapter creation log")
	}
	if name, _ := argValue(entry, "adapter"); name != "memory" {
		t.Fatalf("adapter name = %v", name)
	}
	if adapterName(custom) != "custom" {
		t.Fatalf("unnamed adapters report as custom")
	}
}
