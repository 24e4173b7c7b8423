package records

import "gameframework/pkg/domain"

// ArchetypeCatalog is a named list of archetypes, e.g. the weapon kinds of a
// game. It exposes its list as an archetype slot named after the catalog.
type ArchetypeCatalog struct {
	Name       string
	Archetypes *domain.ArchetypeList
}

// NewArchetypeCatalog returns an empty catalog.
func NewArchetypeCatalog(name string) *ArchetypeCatalog {
	return &ArchetypeCatalog{Name: name, Archetypes: domain.NewArchetypeList()}
}

// Label implements Labeled.
func (c *ArchetypeCatalog) Label() string { return c.Name }

// ArchetypeSlots implements domain.ArchetypeSlotProvider.
func (c *ArchetypeCatalog) ArchetypeSlots() []domain.ArchetypeSlot {
	return []domain.ArchetypeSlot{{Name: c.Name, Operations: c.Archetypes}}
}

// SerializableData implements domain.Record.
func (c *ArchetypeCatalog) SerializableData() domain.RecordData {
	data := domain.NewRecordData(KindArchetypeCatalog, settingsVersion)
	data.Set("name", c.Name)
	data.Set("archetypes", c.Archetypes.Values())
	return data
}

// FillFromSerializableData implements domain.Record. The persisted list
// replaces the current entries; a missing list keeps them.
func (c *ArchetypeCatalog) FillFromSerializableData(data domain.RecordData) {
	raw, ok := data.SliceValue("archetypes")
	if !ok {
		return
	}
	if c.Archetypes == nil {
		c.Archetypes = domain.NewArchetypeList()
	}
	c.Archetypes.Reset(domain.ArchetypesFromValue(raw)...)
}
