package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArchetypeListClonesOnTheWayInAndOut(t *testing.T) {
	attrs := map[string]any{"damage": 10.0}
	list := NewArchetypeList(Archetype{Name: "sword", Attributes: attrs})
	attrs["damage"] = 99.0

	got, ok := list.At(0)
	if !ok || got.Attributes["damage"] != 10.0 {
		t.Fatalf("AddRange must clone values: %+v", got)
	}
	got.Attributes["damage"] = 1.0
	if again, _ := list.At(0); again.Attributes["damage"] != 10.0 {
		t.Fatalf("At must return a clone")
	}
	if _, ok := list.At(1); ok {
		t.Fatalf("out of range index must fail")
	}

	list.AddRange(Archetype{Name: "bow"})
	if list.Count() != 2 || len(list.All()) != 2 {
		t.Fatalf("unexpected count %d", list.Count())
	}
	list.Reset(Archetype{Name: "axe"})
	if list.Count() != 1 || list.All()[0].Name != "axe" {
		t.Fatalf("Reset must replace entries: %+v", list.All())
	}
}

func TestNilArchetypeList(t *testing.T) {
	var list *ArchetypeList
	if list.Count() != 0 || list.All() != nil {
		t.Fatalf("nil list must read as empty")
	}
	if _, ok := list.At(0); ok {
		t.Fatalf("nil list has no entries")
	}
	if v := list.Values(); v == nil || len(v) != 0 {
		t.Fatalf("nil list renders an empty non-nil slice, got %#v", v)
	}
}

func TestArchetypeValuesRoundTrip(t *testing.T) {
	want := []Archetype{
		{Name: "sword", Attributes: map[string]any{"damage": 10.0, "tags": []any{"melee"}}},
		{Name: "bow"},
	}
	got := ArchetypesFromValue(NewArchetypeList(want...).Values())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestArchetypesFromValueDropsMalformedEntries(t *testing.T) {
	raw := []any{
		map[any]any{"name": "decoded", "attributes": map[any]any{"k": "v"}},
		"not an object",
		map[string]any{"attributes": map[string]any{}},
		map[string]any{"name": ""},
	}
	got := ArchetypesFromValue(raw)
	want := []Archetype{{Name: "decoded", Attributes: map[string]any{"k": "v"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected archetypes (-want +got):\n%s", diff)
	}
	if ArchetypesFromValue("flat") != nil {
		t.Fatalf("non-list input must decode to nil")
	}
}

func TestDefaultArchetypesClone(t *testing.T) {
	decl := DefaultArchetypes{Values: []Archetype{{Name: "sword", Attributes: map[string]any{"d": 1.0}}}, OnlyOnEmptyLists: true}
	clone := decl.Clone()
	clone.Values[0].Attributes["d"] = 2.0
	if decl.Values[0].Attributes["d"] != 1.0 || !clone.OnlyOnEmptyLists {
		t.Fatalf("declaration clone must be deep")
	}
	if (DefaultArchetypes{}).Clone().Values != nil {
		t.Fatalf("nil values must stay nil")
	}
}
