// Snapshot and restore: every physical table is exported to a
// <table>.jsonl file so a store can be carried between machines or kept
// as a plain-text backup independent of the SQLite file format.
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coilworks/magbook/pkg/types"
)

// snapshotTables lists every physical table with its column set, parents
// before children so restore can insert in file order and clear in
// reverse. Blob columns round-trip through base64 in the JSONL files.
var snapshotTables = []struct {
	name    string
	columns []string
	blobs   map[string]bool
}{
	{"organizations", organizationColumns, nil},
	{"sites", siteColumns, nil},
	{"rooms", roomTableColumns, nil},
	{"equipment", equipmentColumns, nil},
	{"events", eventColumns, nil},
	{"images", imageColumns, map[string]bool{"data": true, "thumbnail": true}},
	{"image_tags", []string{"image_id", "tag"}, nil},
	{"timelines", timelineColumns, nil},
}

// Snapshot writes every table to <table>.jsonl files under dir, creating
// the directory if needed.
func (b *Backend) Snapshot(dir string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	for _, tbl := range snapshotTables {
		records, err := exportTable(b.db, tbl.name, tbl.columns)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", tbl.name, err)
		}
		path := filepath.Join(dir, tbl.name+".jsonl")
		if err := writeJSONL(path, records); err != nil {
			return fmt.Errorf("writing %s snapshot: %w", tbl.name, err)
		}
	}
	return nil
}

// Restore loads <table>.jsonl files from dir, replacing current contents.
// Loading is transactional: all tables load or none do. Missing files are
// treated as empty tables; malformed lines are skipped.
func (b *Backend) Restore(dir string) error {
	b.mu.Lock()

	if !b.attached {
		b.mu.Unlock()
		return types.ErrStoreDetached
	}

	if err := b.restoreLocked(dir); err != nil {
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()

	b.watch.notify(types.StandardTableNames...)
	return nil
}

func (b *Backend) restoreLocked(dir string) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning restore transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear children before parents.
	for i := len(snapshotTables) - 1; i >= 0; i-- {
		if _, err := tx.Exec("DELETE FROM " + snapshotTables[i].name); err != nil {
			return fmt.Errorf("clearing %s: %w", snapshotTables[i].name, err)
		}
	}

	for _, tbl := range snapshotTables {
		path := filepath.Join(dir, tbl.name+".jsonl")
		records, err := readJSONL(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s snapshot: %w", tbl.name, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, tbl.name, tbl.columns, tbl.blobs, records); err != nil {
			return fmt.Errorf("loading %s: %w", tbl.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}
	return nil
}

// exportTable reads every row of a table into one JSON object per row.
// Blob values come back as []byte and marshal to base64 strings.
func exportTable(db *sql.DB, table string, columns []string) ([]json.RawMessage, error) {
	rows, err := db.Query("SELECT " + strings.Join(columns, ", ") + " FROM " + table)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range values {
			scans[i] = &values[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		obj := make(map[string]any, len(columns))
		for i, col := range columns {
			obj[col] = values[i]
		}
		rec, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encoding row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}

// insertRecords inserts JSONL records into a table. Only listed columns
// are extracted; unknown fields are ignored so newer snapshots load into
// older stores. Records that fail to parse or violate constraints are
// skipped.
func insertRecords(tx *sql.Tx, table string, columns []string, blobs map[string]bool, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			val, ok := obj[col]
			if !ok {
				args[i] = nil
				continue
			}
			switch v := val.(type) {
			case string:
				if blobs[col] {
					decoded, err := base64.StdEncoding.DecodeString(v)
					if err != nil {
						args[i] = nil
						continue
					}
					args[i] = decoded
				} else {
					args[i] = v
				}
			case map[string]any, []any:
				encoded, err := json.Marshal(v)
				if err != nil {
					args[i] = nil
					continue
				}
				args[i] = string(encoded)
			default:
				args[i] = val
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}
	return nil
}
