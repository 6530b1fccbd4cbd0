package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

// timeLayout is the persisted timestamp format. Nanosecond precision keeps
// updated_at strictly increasing across back-to-back mutations.
const timeLayout = time.RFC3339Nano

// maxInArgs caps IN-list size per statement; larger value sets are
// chunked.
const maxInArgs = 500

// tableSpec describes how one entity type maps onto its SQLite table.
// columns[0] must be the primary key column.
type tableSpec struct {
	name      string
	idColumn  string
	columns   []string
	queryable map[string]bool // secondary-indexed columns usable with Where
	updatable map[string]bool // columns accepted by Update

	// bind validates the entity, stamps its timestamps, and returns the
	// values in columns order.
	bind func(entity any, createdAt, updatedAt time.Time) ([]any, error)

	// hydrate converts the current row into the entity struct.
	hydrate func(rows *sql.Rows) (any, error)
}

// table implements types.Table generically over a tableSpec. Entity types
// with side tables or derived fields layer hooks on top.
type table struct {
	backend *Backend
	spec    tableSpec

	loadHook   func(entity any) error             // after hydrate, e.g. image tags
	writeHook  func(tx *sql.Tx, entity any) error // inside the insert transaction
	deleteHook func(tx *sql.Tx, id string) error  // inside the delete transaction
	clearHook  func(tx *sql.Tx) error             // inside the clear transaction
}

var _ types.Table = (*table)(nil)

func (t *table) selectClause() string {
	return "SELECT " + strings.Join(t.spec.columns, ", ") + " FROM " + t.spec.name
}

// Get retrieves an entity by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *table) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := t.backend.db.Query(
		t.selectClause()+" WHERE "+t.spec.idColumn+" = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", t.spec.name, id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting %s %s: %w", t.spec.name, id, err)
		}
		return nil, types.ErrNotFound
	}
	entity, err := t.spec.hydrate(rows)
	if err != nil {
		return nil, fmt.Errorf("hydrating %s %s: %w", t.spec.name, id, err)
	}
	if t.loadHook != nil {
		if err := t.loadHook(entity); err != nil {
			return nil, fmt.Errorf("loading %s %s: %w", t.spec.name, id, err)
		}
	}
	return entity, nil
}

// Add inserts a new entity. The caller supplies the ID; the store stamps
// created_at and updated_at. Returns ErrDuplicateID if the ID exists.
func (t *table) Add(entity any) error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	now := time.Now().UTC()
	args, err := t.spec.bind(entity, now, now)
	if err != nil {
		return err
	}
	id, _ := args[0].(string)
	if id == "" {
		return types.ErrInvalidID
	}

	var exists int
	err = t.backend.db.QueryRow(
		"SELECT 1 FROM "+t.spec.name+" WHERE "+t.spec.idColumn+" = ?", id,
	).Scan(&exists)
	if err == nil {
		return types.ErrDuplicateID
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking %s existence: %w", t.spec.name, err)
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.spec.columns)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.spec.name, strings.Join(t.spec.columns, ", "), placeholders)
	if _, err := tx.Exec(insert, args...); err != nil {
		return fmt.Errorf("inserting %s: %w", t.spec.name, err)
	}

	if t.writeHook != nil {
		if err := t.writeHook(tx, entity); err != nil {
			return fmt.Errorf("writing %s side data: %w", t.spec.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s insert: %w", t.spec.name, err)
	}

	t.backend.watch.notify(t.spec.name)
	return nil
}

// Update merges fields (keyed by column name) into an existing entity and
// refreshes updated_at. Returns ErrNotFound if the entity does not exist,
// ErrInvalidField for columns that are not updatable.
func (t *table) Update(id string, fields map[string]any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	for field := range fields {
		if !t.spec.updatable[field] {
			return fmt.Errorf("%w: %s.%s", types.ErrInvalidField, t.spec.name, field)
		}
	}

	var exists int
	err := t.backend.db.QueryRow(
		"SELECT 1 FROM "+t.spec.name+" WHERE "+t.spec.idColumn+" = ?", id,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", t.spec.name, err)
	}

	var sets []string
	var args []any
	// Iterate columns, not the map, to keep the statement deterministic.
	for _, col := range t.spec.columns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, normalizeValue(v))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(timeLayout))
	args = append(args, id)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		t.spec.name, strings.Join(sets, ", "), t.spec.idColumn)
	if _, err := t.backend.db.Exec(stmt, args...); err != nil {
		return fmt.Errorf("updating %s %s: %w", t.spec.name, id, err)
	}

	t.backend.watch.notify(t.spec.name)
	return nil
}

// Delete removes an entity by ID. Deleting an absent entity is a no-op.
func (t *table) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if t.deleteHook != nil {
		if err := t.deleteHook(tx, id); err != nil {
			return fmt.Errorf("deleting %s side data: %w", t.spec.name, err)
		}
	}
	if _, err := tx.Exec(
		"DELETE FROM "+t.spec.name+" WHERE "+t.spec.idColumn+" = ?", id); err != nil {
		return fmt.Errorf("deleting %s %s: %w", t.spec.name, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s deletion: %w", t.spec.name, err)
	}

	t.backend.watch.notify(t.spec.name)
	return nil
}

// Where returns entities whose indexed field equals any of the given
// values. Result order is not guaranteed; callers sort explicitly.
func (t *table) Where(field string, values ...string) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}
	if !t.spec.queryable[field] {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrInvalidField, t.spec.name, field)
	}

	results := []any{}
	for _, chunk := range chunkStrings(values, maxInArgs) {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		query := t.selectClause() + " WHERE " + field + " IN (" + placeholders + ")"
		args := make([]any, len(chunk))
		for i, v := range chunk {
			args[i] = v
		}
		hydrated, err := t.queryEntities(query, args...)
		if err != nil {
			return nil, err
		}
		results = append(results, hydrated...)
	}
	return results, nil
}

// All returns every entity in the table, oldest first.
func (t *table) All() ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}
	return t.queryEntities(t.selectClause() + " ORDER BY created_at ASC")
}

// Count returns the number of entities in the table.
func (t *table) Count() (int, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return 0, types.ErrStoreDetached
	}

	var n int
	if err := t.backend.db.QueryRow("SELECT COUNT(*) FROM " + t.spec.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", t.spec.name, err)
	}
	return n, nil
}

// Clear removes every entity in the table.
func (t *table) Clear() error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if t.clearHook != nil {
		if err := t.clearHook(tx); err != nil {
			return fmt.Errorf("clearing %s side data: %w", t.spec.name, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM " + t.spec.name); err != nil {
		return fmt.Errorf("clearing %s: %w", t.spec.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s clear: %w", t.spec.name, err)
	}

	t.backend.watch.notify(t.spec.name)
	return nil
}

// queryEntities runs a select over the table's column list and hydrates
// every row. The caller must hold the backend lock.
func (t *table) queryEntities(query string, args ...any) ([]any, error) {
	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.spec.name, err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		entity, err := t.spec.hydrate(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating %s: %w", t.spec.name, err)
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.spec.name, err)
	}

	if t.loadHook != nil {
		for _, entity := range results {
			if err := t.loadHook(entity); err != nil {
				return nil, fmt.Errorf("loading %s: %w", t.spec.name, err)
			}
		}
	}
	return results, nil
}

// normalizeValue converts Go values into their persisted SQLite forms.
func normalizeValue(v any) any {
	switch tv := v.(type) {
	case time.Time:
		return tv.UTC().Format(timeLayout)
	case *time.Time:
		if tv == nil {
			return nil
		}
		return tv.UTC().Format(timeLayout)
	default:
		return v
	}
}

// formatTime renders a timestamp in the persisted layout.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatTimePtr renders an optional timestamp, nil for absent.
func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// parseTime parses a persisted timestamp.
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// parseTimePtr parses an optional persisted timestamp.
func parseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// chunkStrings splits values into slices of at most n entries.
func chunkStrings(values []string, n int) [][]string {
	var chunks [][]string
	for len(values) > n {
		chunks = append(chunks, values[:n])
		values = values[n:]
	}
	if len(values) > 0 {
		chunks = append(chunks, values)
	}
	return chunks
}
