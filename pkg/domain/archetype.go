package domain

// Archetype is a template entry seeded into an archetype list, e.g. the
// default weapon kinds of an item catalog.
type Archetype struct {
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Clone returns a deep copy of the archetype.
func (a Archetype) Clone() Archetype {
	out := Archetype{Name: a.Name}
	if a.Attributes != nil {
		out.Attributes = cloneMap(a.Attributes)
	}
	return out
}

// ArchetypeOperations is the bulk default insertion capability of an
// extension point.
type ArchetypeOperations interface {
	Count() int
	AddRange(values ...Archetype)
}

// DefaultArchetypes declares the archetypes seeded into a slot by the
// default-population pass.
type DefaultArchetypes struct {
	Values []Archetype
	// OnlyOnEmptyLists skips the slot when it already holds entries.
	OnlyOnEmptyLists bool
}

// Clone returns a deep copy of the declaration.
func (d DefaultArchetypes) Clone() DefaultArchetypes {
	out := DefaultArchetypes{OnlyOnEmptyLists: d.OnlyOnEmptyLists}
	if d.Values != nil {
		out.Values = make([]Archetype, len(d.Values))
		for i, v := range d.Values {
			out.Values[i] = v.Clone()
		}
	}
	return out
}

// ArchetypeSlot registers one extension point with the default-population
// pass. A nil Operations means the slot holds no value and is not visited; a
// nil Defaults means the slot carries no declaration.
type ArchetypeSlot struct {
	Name       string
	Operations ArchetypeOperations
	Defaults   *DefaultArchetypes
}

// ArchetypeSlotProvider is implemented by records that expose archetype
// slots. A database registers the slots of such records when they are added.
type ArchetypeSlotProvider interface {
	ArchetypeSlots() []ArchetypeSlot
}

// ArchetypeList is the stock ArchetypeOperations implementation.
type ArchetypeList struct {
	items []Archetype
}

// NewArchetypeList returns a list holding clones of values.
func NewArchetypeList(values ...Archetype) *ArchetypeList {
	l := &ArchetypeList{}
	l.AddRange(values...)
	return l
}

// Count implements ArchetypeOperations.
func (l *ArchetypeList) Count() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// AddRange implements ArchetypeOperations; values are appended as clones.
func (l *ArchetypeList) AddRange(values ...Archetype) {
	for _, v := range values {
		l.items = append(l.items, v.Clone())
	}
}

// At returns a clone of the archetype at index i.
func (l *ArchetypeList) At(i int) (Archetype, bool) {
	if l == nil || i < 0 || i >= len(l.items) {
		return Archetype{}, false
	}
	return l.items[i].Clone(), true
}

// All returns clones of every archetype in order.
func (l *ArchetypeList) All() []Archetype {
	if l == nil {
		return nil
	}
	out := make([]Archetype, len(l.items))
	for i, item := range l.items {
		out[i] = item.Clone()
	}
	return out
}

// Reset replaces the contents with clones of values.
func (l *ArchetypeList) Reset(values ...Archetype) {
	l.items = nil
	l.AddRange(values...)
}

// Values renders the list into the plain form stored in a RecordData bag.
func (l *ArchetypeList) Values() []any {
	if l == nil {
		return []any{}
	}
	out := make([]any, len(l.items))
	for i, item := range l.items {
		entry := map[string]any{"name": item.Name}
		if item.Attributes != nil {
			entry["attributes"] = cloneMap(item.Attributes)
		}
		out[i] = entry
	}
	return out
}

// ArchetypesFromValue decodes the plain form written by Values. Entries that
// are not objects or carry no name are dropped.
func ArchetypesFromValue(v any) []Archetype {
	items, ok := ToSlice(v)
	if !ok {
		return nil
	}
	out := make([]Archetype, 0, len(items))
	for _, item := range items {
		entry, ok := ToMap(item)
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		arch := Archetype{Name: name}
		if attrs, ok := ToMap(entry["attributes"]); ok {
			arch.Attributes = cloneMap(attrs)
		}
		out = append(out, arch)
	}
	return out
}

var _ ArchetypeOperations = (*ArchetypeList)(nil)
