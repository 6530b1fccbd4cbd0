// Package sqlite implements the SQLite storage backend for magbook: a
// versioned, migrating, embedded store for the organization/site/room/
// equipment/event hierarchy.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
)

// TableLayout declares one table's shape at a schema version. Layout
// application is reapply-safe: Create statements use IF NOT EXISTS,
// AddColumns are guarded by a column-presence check, and Tombstone drops
// use IF EXISTS.
type TableLayout struct {
	Name       string
	Create     string   // full CREATE TABLE IF NOT EXISTS statement
	AddColumns []string // column definitions added only when absent
	Indexes    []string // CREATE INDEX IF NOT EXISTS statements
	Tombstone  bool     // drop the table once the version's upgrade has run
}

// SchemaVersion couples a version number with its table layouts and an
// optional upgrade procedure. The upgrade runs in the same transaction as
// the layout changes, after non-tombstone layouts are applied and before
// tombstoned tables are dropped, so it can read rows under old names and
// write them under new ones.
type SchemaVersion struct {
	Version int
	Layouts []TableLayout
	Upgrade func(tx *sql.Tx) error
}

// Registry schema errors.
var (
	ErrVersionOrder   = errors.New("schema versions must be registered in strictly increasing order")
	ErrVersionInvalid = errors.New("schema version must be positive")
)

// Registry holds schema versions in strictly ascending order.
type Registry struct {
	versions []SchemaVersion
}

// Register appends a schema version. Versions must be positive and
// strictly increasing.
func (r *Registry) Register(version int, layouts []TableLayout, upgrade func(tx *sql.Tx) error) error {
	if version <= 0 {
		return ErrVersionInvalid
	}
	if version <= r.Latest() {
		return fmt.Errorf("%w: %d after %d", ErrVersionOrder, version, r.Latest())
	}
	r.versions = append(r.versions, SchemaVersion{
		Version: version,
		Layouts: layouts,
		Upgrade: upgrade,
	})
	return nil
}

// Latest returns the highest registered version, 0 when empty.
func (r *Registry) Latest() int {
	if len(r.versions) == 0 {
		return 0
	}
	return r.versions[len(r.versions)-1].Version
}

// PendingAfter returns the ordered suffix of versions greater than current.
func (r *Registry) PendingAfter(current int) []SchemaVersion {
	for i, sv := range r.versions {
		if sv.Version > current {
			return r.versions[i:]
		}
	}
	return nil
}

// Version 1 DDL: flat locations table, equipment/events/images keyed by
// location_id, image_tags side table for the multi-valued tag index.
const (
	createLocations = `CREATE TABLE IF NOT EXISTS locations (
    location_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    contact_name TEXT NOT NULL DEFAULT '',
    contact_phone TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createEquipmentV1 = `CREATE TABLE IF NOT EXISTS equipment (
    equipment_id TEXT PRIMARY KEY,
    location_id TEXT NOT NULL,
    name TEXT NOT NULL,
    equipment_type TEXT NOT NULL,
    manufacturer TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    serial_number TEXT NOT NULL DEFAULT '',
    field_strength TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    installed_at TEXT,
    decommissioned_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createEventsV1 = `CREATE TABLE IF NOT EXISTS events (
    event_id TEXT PRIMARY KEY,
    equipment_id TEXT NOT NULL,
    location_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    status TEXT NOT NULL,
    title TEXT NOT NULL,
    findings TEXT NOT NULL DEFAULT '',
    scheduled_at TEXT,
    started_at TEXT,
    completed_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createImagesV1 = `CREATE TABLE IF NOT EXISTS images (
    image_id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL DEFAULT '',
    equipment_id TEXT NOT NULL DEFAULT '',
    location_id TEXT NOT NULL DEFAULT '',
    data BLOB NOT NULL,
    thumbnail BLOB,
    caption TEXT NOT NULL DEFAULT '',
    captured_at TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createImageTags = `CREATE TABLE IF NOT EXISTS image_tags (
    image_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (image_id, tag)
);`

	createTimelines = `CREATE TABLE IF NOT EXISTS timelines (
    timeline_id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    image_ids TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Version 2 DDL: organizations and sites appear above locations.
const (
	createOrganizations = `CREATE TABLE IF NOT EXISTS organizations (
    organization_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    contact_name TEXT NOT NULL DEFAULT '',
    contact_email TEXT NOT NULL DEFAULT '',
    contact_phone TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createSites = `CREATE TABLE IF NOT EXISTS sites (
    site_id TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL,
    name TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    contact_name TEXT NOT NULL DEFAULT '',
    contact_phone TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Version 3 DDL: rooms replaces locations.
const createRooms = `CREATE TABLE IF NOT EXISTS rooms (
    room_id TEXT PRIMARY KEY,
    site_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    contact_name TEXT NOT NULL DEFAULT '',
    contact_phone TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// newSchemaRegistry builds the registry with the full migration history.
// Panics on registration misuse, which is a programming error.
func newSchemaRegistry() *Registry {
	r := &Registry{}

	mustRegister := func(version int, layouts []TableLayout, upgrade func(tx *sql.Tx) error) {
		if err := r.Register(version, layouts, upgrade); err != nil {
			panic(err)
		}
	}

	mustRegister(1, []TableLayout{
		{Name: "locations", Create: createLocations},
		{Name: "equipment", Create: createEquipmentV1, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_equipment_location ON equipment(location_id);`,
			`CREATE INDEX IF NOT EXISTS idx_equipment_status ON equipment(status);`,
		}},
		{Name: "events", Create: createEventsV1, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_events_equipment ON events(equipment_id);`,
			`CREATE INDEX IF NOT EXISTS idx_events_location ON events(location_id);`,
			`CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);`,
			`CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);`,
		}},
		{Name: "images", Create: createImagesV1, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_images_event ON images(event_id);`,
			`CREATE INDEX IF NOT EXISTS idx_images_equipment ON images(equipment_id);`,
			`CREATE INDEX IF NOT EXISTS idx_images_location ON images(location_id);`,
		}},
		{Name: "image_tags", Create: createImageTags, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_image_tags_tag ON image_tags(tag);`,
		}},
		{Name: "timelines", Create: createTimelines, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_timelines_event ON timelines(event_id);`,
		}},
	}, nil)

	mustRegister(2, []TableLayout{
		{Name: "organizations", Create: createOrganizations},
		{Name: "sites", Create: createSites, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_sites_organization ON sites(organization_id);`,
		}},
		{Name: "locations", AddColumns: []string{`site_id TEXT NOT NULL DEFAULT ''`}, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_locations_site ON locations(site_id);`,
		}},
		{Name: "equipment", Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_equipment_type ON equipment(equipment_type);`,
		}},
	}, nil)

	mustRegister(3, []TableLayout{
		{Name: "rooms", Create: createRooms, Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_rooms_site ON rooms(site_id);`,
		}},
		{Name: "locations", Tombstone: true},
	}, upgradeToRooms)

	return r
}

// defaultRegistry is the schema history every backend migrates through.
var defaultRegistry = newSchemaRegistry()
