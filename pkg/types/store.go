package types

import "errors"

// Store defines the interface for backend-agnostic storage access.
// Callers attach to a backend, access tables by name, and detach when done.
// Attach runs any pending schema migrations before returning; a migration
// failure is fatal and leaves the store detached.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Store to the backend described by config,
	// creating the DataDir if it does not exist and migrating the
	// on-disk schema to the latest version.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations on tables return ErrStoreDetached.
	Detach() error

	// SchemaVersion returns the schema version of the attached store.
	SchemaVersion() int

	// DeleteCascade removes the entity with the given ID from the named
	// hierarchy table together with every transitive descendant, children
	// before parents, inside one transaction.
	DeleteCascade(table, id string) error

	// Subscribe registers fn to run after any committed write touching one
	// of the named tables. The returned function cancels the subscription.
	Subscribe(tables []string, fn func()) (func(), error)

	// Wipe removes all persisted data and reopens an empty store at the
	// latest schema version.
	Wipe() error

	// Snapshot writes every table to <table>.jsonl files under dir.
	Snapshot(dir string) error

	// Restore loads <table>.jsonl files from dir into the store,
	// replacing current contents.
	Restore(dir string) error

	// Composite reads: fetch an entity together with its immediate
	// children. An absent parent yields (nil, nil); a parent with no
	// children yields an empty child slice.
	GetOrganizationWithSites(id string) (*OrganizationWithSites, error)
	GetSiteWithRooms(id string) (*SiteWithRooms, error)
	GetRoomWithEquipment(id string) (*RoomWithEquipment, error)
	GetEquipmentWithEvents(id string) (*EquipmentWithEvents, error)
	GetEventWithImages(id string) (*EventWithImages, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
