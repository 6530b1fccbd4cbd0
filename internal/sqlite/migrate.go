// Migration engine: brings the on-disk database from its recorded schema
// version (PRAGMA user_version, 0 for a fresh file) to the registry's
// latest, one transaction per version step. A failed step rolls back and
// leaves the store at the last committed version; the next Attach resumes
// from there.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrate applies every pending schema version in ascending order and
// returns the resulting version.
func migrate(db *sql.DB, reg *Registry) (int, error) {
	current, err := schemaVersion(db)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}

	for _, sv := range reg.PendingAfter(current) {
		if err := applyVersion(db, sv); err != nil {
			return current, fmt.Errorf("migrating to schema version %d: %w", sv.Version, err)
		}
		current = sv.Version
	}
	return current, nil
}

// schemaVersion reads the database's recorded version.
func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// applyVersion runs one version step atomically: non-tombstone layouts,
// then the upgrade procedure (with old and new tables both live), then
// tombstone drops, then the version stamp.
func applyVersion(db *sql.DB, sv SchemaVersion) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, layout := range sv.Layouts {
		if layout.Tombstone {
			continue
		}
		if err := applyLayout(tx, layout); err != nil {
			return fmt.Errorf("applying layout for %s: %w", layout.Name, err)
		}
	}

	if sv.Upgrade != nil {
		if err := sv.Upgrade(tx); err != nil {
			return fmt.Errorf("running upgrade: %w", err)
		}
	}

	for _, layout := range sv.Layouts {
		if !layout.Tombstone {
			continue
		}
		if _, err := tx.Exec("DROP TABLE IF EXISTS " + layout.Name); err != nil {
			return fmt.Errorf("dropping %s: %w", layout.Name, err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", sv.Version)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}
	return nil
}

// applyLayout executes one table's layout changes. Safe to reapply:
// creates and indexes use IF NOT EXISTS, column additions check for the
// column first.
func applyLayout(tx *sql.Tx, layout TableLayout) error {
	if layout.Create != "" {
		if _, err := tx.Exec(layout.Create); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, def := range layout.AddColumns {
		col := strings.Fields(def)[0]
		present, err := hasColumn(tx, layout.Name, col)
		if err != nil {
			return fmt.Errorf("checking column %s: %w", col, err)
		}
		if present {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", layout.Name, def)
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("adding column %s: %w", col, err)
		}
	}
	for _, idx := range layout.Indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// hasColumn reports whether the table currently has the named column.
func hasColumn(tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// roomColumns is the column order used when copying locations into rooms.
var roomColumns = []string{
	"room_id", "site_id", "name", "address",
	"contact_name", "contact_phone", "created_at", "updated_at",
}

// locationToRoom maps a version-2 locations row to a version-3 rooms row.
// Pure data transformation, kept separate from the storage engine so the
// rename can be tested without a database.
func locationToRoom(row map[string]any) map[string]any {
	return renameField(row, "location_id", "room_id")
}

// renameField returns a copy of row with old renamed to new. A missing old
// key leaves the row unchanged apart from the copy.
func renameField(row map[string]any, old, new string) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		if k == old {
			out[new] = v
			continue
		}
		out[k] = v
	}
	return out
}

// upgradeToRooms is the version-3 upgrade: copy every locations row into
// rooms and rename location_id to room_id on equipment, events, and
// images. Each step checks for the old table or column first, so a
// partially applied run can be resumed without rewriting rows twice.
func upgradeToRooms(tx *sql.Tx) error {
	if err := copyLocationsToRooms(tx); err != nil {
		return fmt.Errorf("copying locations to rooms: %w", err)
	}

	for _, tbl := range []string{"equipment", "events", "images"} {
		present, err := hasColumn(tx, tbl, "location_id")
		if err != nil {
			return fmt.Errorf("checking %s.location_id: %w", tbl, err)
		}
		if !present {
			continue
		}
		if _, err := tx.Exec(fmt.Sprintf("DROP INDEX IF EXISTS idx_%s_location", tbl)); err != nil {
			return fmt.Errorf("dropping old index on %s: %w", tbl, err)
		}
		stmt := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN location_id TO room_id", tbl)
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("renaming %s.location_id: %w", tbl, err)
		}
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_room ON %s(room_id)", tbl, tbl)
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("indexing %s.room_id: %w", tbl, err)
		}
	}
	return nil
}

// copyLocationsToRooms copies pre-existing locations rows into rooms
// unchanged apart from the key rename. INSERT OR IGNORE keeps the copy
// idempotent for rows that already made it across.
func copyLocationsToRooms(tx *sql.Tx) error {
	rows, err := tx.Query("SELECT * FROM locations")
	if err != nil {
		return fmt.Errorf("reading locations: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading locations columns: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(roomColumns)), ", ")
	insert := fmt.Sprintf(
		"INSERT OR IGNORE INTO rooms (%s) VALUES (%s)",
		strings.Join(roomColumns, ", "), placeholders,
	)
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("preparing rooms insert: %w", err)
	}
	defer stmt.Close()

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning location row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}

		mapped := locationToRoom(row)
		args := make([]any, len(roomColumns))
		for i, c := range roomColumns {
			args[i] = mapped[c]
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting room row: %w", err)
		}
	}
	return rows.Err()
}
