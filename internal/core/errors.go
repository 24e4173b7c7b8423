package core

import "errors"

var (
	// ErrNilRecord is returned when a nil record is added to a database.
	ErrNilRecord = errors.New("record cannot be nil")
	// ErrIndexOutOfRange is returned by Insert for an index outside 0..Len().
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownSlot is returned when defaults are declared for an unregistered slot.
	ErrUnknownSlot = errors.New("unknown archetype slot")
	// ErrDuplicateSlot is returned when a slot name is registered twice.
	ErrDuplicateSlot = errors.New("archetype slot already registered")
	// ErrInvalidSlot is returned when a slot has no name.
	ErrInvalidSlot = errors.New("archetype slot name required")
)
