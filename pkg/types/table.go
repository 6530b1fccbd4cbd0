package types

import "errors"

// Table provides uniform CRUD operations for a single entity type.
// Get, Where, and All return any; callers type-assert to the concrete
// entity struct for the table.
//
// Entity IDs are opaque strings supplied by the caller; the store never
// generates them. The store stamps created_at on Add and refreshes
// updated_at on every mutation.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Add inserts a new entity. The entity must carry a non-empty ID.
	// Returns ErrDuplicateID if an entity with the same ID already exists.
	Add(entity any) error

	// Update merges the given fields into an existing entity, keyed by
	// column name. Returns ErrNotFound if the entity does not exist and
	// ErrInvalidField for fields that are not updatable.
	Update(id string, fields map[string]any) error

	// Delete removes the entity with the given ID. Deleting an absent
	// entity is a no-op, not an error.
	Delete(id string) error

	// Where returns entities whose indexed field equals any of the given
	// values. A single value is an equality scan; multiple values are a
	// set-membership scan. Returns ErrInvalidField if the field is not
	// indexed on this table. Result order is not guaranteed.
	Where(field string, values ...string) ([]any, error)

	// All returns every entity in the table.
	All() ([]any, error)

	// Count returns the number of entities in the table.
	Count() (int, error)

	// Clear removes every entity in the table.
	Clear() error
}

// Table operation errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicateID  = errors.New("entity ID already exists")
	ErrInvalidID    = errors.New("invalid entity ID")
	ErrInvalidData  = errors.New("invalid entity data")
	ErrInvalidField = errors.New("invalid field for table")
)

// Entity method errors.
var (
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidType       = errors.New("invalid type value")
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrInvalidTransition = errors.New("invalid status transition")
)
