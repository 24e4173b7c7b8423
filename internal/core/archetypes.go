package core

import (
	"context"
	"fmt"

	"gameframework/pkg/domain"
)

// PopulationOutcome classifies what the default-population pass did to a slot.
type PopulationOutcome string

const (
	// OutcomeEmptySlot means the slot holds no value and was not visited.
	OutcomeEmptySlot PopulationOutcome = "empty_slot"
	// OutcomeNoDeclaration means the slot carries no default declaration.
	OutcomeNoDeclaration PopulationOutcome = "no_declaration"
	// OutcomeSkippedNotEmpty means the declaration is only-if-empty and the
	// slot already held entries.
	OutcomeSkippedNotEmpty PopulationOutcome = "skipped_not_empty"
	// OutcomePopulated means the declared defaults were appended.
	OutcomePopulated PopulationOutcome = "populated"
)

// SlotPopulation reports the pass result for one slot.
type SlotPopulation struct {
	Slot    string            `json:"slot"`
	Outcome PopulationOutcome `json:"outcome"`
	Before  int               `json:"before"`
	Added   int               `json:"added"`
}

// PopulationReport lists slot results in registration order.
type PopulationReport struct {
	Database string           `json:"database"`
	Slots    []SlotPopulation `json:"slots"`
}

// Added returns the total number of archetypes appended by the pass.
func (r PopulationReport) Added() int {
	total := 0
	for _, s := range r.Slots {
		total += s.Added
	}
	return total
}

type slotEntry struct {
	name       string
	operations domain.ArchetypeOperations
	defaults   *domain.DefaultArchetypes
}

// RegisterArchetypeSlot adds slot to the registration list consumed by
// PopulateDefaults. A nil Operations is accepted and reported as an empty slot.
func (db *Database) RegisterArchetypeSlot(slot domain.ArchetypeSlot) error {
	if slot.Name == "" {
		return ErrInvalidSlot
	}
	if _, exists := db.slotIndex[slot.Name]; exists {
		return fmt.Errorf("%s: %w", slot.Name, ErrDuplicateSlot)
	}
	entry := slotEntry{name: slot.Name, operations: slot.Operations}
	if slot.Defaults != nil {
		decl := slot.Defaults.Clone()
		entry.defaults = &decl
	}
	db.slotIndex[slot.Name] = len(db.slots)
	db.slots = append(db.slots, entry)
	return nil
}

// DeclareDefaults attaches decl to a registered slot, replacing any earlier
// declaration.
func (db *Database) DeclareDefaults(slot string, decl domain.DefaultArchetypes) error {
	idx, ok := db.slotIndex[slot]
	if !ok {
		return fmt.Errorf("%s: %w", slot, ErrUnknownSlot)
	}
	cloned := decl.Clone()
	db.slots[idx].defaults = &cloned
	return nil
}

// ArchetypeSlots returns the registered slots in registration order.
func (db *Database) ArchetypeSlots() []domain.ArchetypeSlot {
	out := make([]domain.ArchetypeSlot, len(db.slots))
	for i, entry := range db.slots {
		out[i] = domain.ArchetypeSlot{Name: entry.name, Operations: entry.operations}
		if entry.defaults != nil {
			decl := entry.defaults.Clone()
			out[i].Defaults = &decl
		}
	}
	return out
}

// PopulateDefaults seeds every registered slot with its declared defaults.
// Declared values are appended to existing entries; an only-if-empty
// declaration skips slots that already hold entries. The pass never runs
// implicitly.
func (db *Database) PopulateDefaults(ctx context.Context) PopulationReport {
	report := PopulationReport{Database: db.name, Slots: make([]SlotPopulation, 0, len(db.slots))}
	_ = db.instrument(ctx, OperationPopulateDefaults, func(context.Context) error {
		for _, entry := range db.slots {
			report.Slots = append(report.Slots, db.populateSlot(entry))
		}
		return nil
	})
	db.logger.Info("default population finished", "database", db.name, "slots", len(report.Slots), "added", report.Added())
	return report
}

func (db *Database) populateSlot(entry slotEntry) SlotPopulation {
	result := SlotPopulation{Slot: entry.name}
	if isEmptySlot(entry.operations) {
		result.Outcome = OutcomeEmptySlot
		return result
	}
	result.Before = entry.operations.Count()
	if entry.defaults == nil {
		result.Outcome = OutcomeNoDeclaration
		return result
	}
	if entry.defaults.OnlyOnEmptyLists && result.Before != 0 {
		result.Outcome = OutcomeSkippedNotEmpty
		db.logger.Debug("default population skipped", "slot", entry.name, "count", result.Before)
		return result
	}
	entry.operations.AddRange(entry.defaults.Values...)
	result.Outcome = OutcomePopulated
	result.Added = len(entry.defaults.Values)
	db.logger.Debug("default population applied", "slot", entry.name, "added", result.Added)
	return result
}

func isEmptySlot(ops domain.ArchetypeOperations) bool {
	if ops == nil {
		return true
	}
	list, ok := ops.(*domain.ArchetypeList)
	return ok && list == nil
}
