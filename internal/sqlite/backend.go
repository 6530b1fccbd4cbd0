package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/coilworks/magbook/pkg/types"
)

// databaseFile is the fixed store filename inside DataDir.
const databaseFile = "magbook.db"

// Backend implements the Store interface on an embedded SQLite database.
// One Backend is attached per application session; writes go through a
// single process, so a plain RWMutex is enough to serialize them.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	version  int
	tables   map[string]types.Table
	watch    *watchHub
}

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
		watch:  newWatchHub(),
	}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, opens the database, and migrates it to the
// latest schema version. A migration failure leaves the backend detached
// and the database at its last committed version.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attachLocked(config)
}

func (b *Backend) attachLocked(config types.Config) error {
	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, databaseFile))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	version, err := migrate(db, defaultRegistry)
	if err != nil {
		db.Close()
		return fmt.Errorf("migrating store: %w", err)
	}

	b.db = db
	b.config = config
	b.version = version
	b.attached = true

	b.tables[types.OrganizationsTable] = newOrganizationsTable(b)
	b.tables[types.SitesTable] = newSitesTable(b)
	b.tables[types.RoomsTable] = newRoomsTable(b)
	b.tables[types.EquipmentTable] = newEquipmentTable(b)
	b.tables[types.EventsTable] = newEventsTable(b)
	b.tables[types.ImagesTable] = newImagesTable(b)
	b.tables[types.TimelinesTable] = newTimelinesTable(b)

	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detachLocked()
}

func (b *Backend) detachLocked() error {
	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}

	b.attached = false
	b.version = 0
	b.tables = make(map[string]types.Table)
	return nil
}

// GetTable returns a Table accessor for the given standard table name.
// Returns ErrTableNotFound if the name is not recognized and
// ErrStoreDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// SchemaVersion returns the schema version of the attached store, 0 when
// detached.
func (b *Backend) SchemaVersion() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Wipe removes all persisted data and reopens an empty store at the
// latest schema version. Returns ErrStoreDetached if not attached.
func (b *Backend) Wipe() error {
	b.mu.Lock()

	if !b.attached {
		b.mu.Unlock()
		return types.ErrStoreDetached
	}

	config := b.config
	if err := b.detachLocked(); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("detaching for wipe: %w", err)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.Remove(filepath.Join(dataDir, databaseFile)); err != nil && !os.IsNotExist(err) {
		b.mu.Unlock()
		return fmt.Errorf("removing database: %w", err)
	}

	if err := b.attachLocked(config); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("reattaching after wipe: %w", err)
	}
	b.mu.Unlock()

	b.watch.notify(types.StandardTableNames...)
	return nil
}
