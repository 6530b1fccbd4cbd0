// Cascade coordinator: deleting any node of the hierarchy removes every
// transitive descendant. The walk collects descendant ID sets level by
// level, then deletes deepest-first inside a single transaction, so a
// failed cascade leaves the subtree intact rather than half-deleted.
//
// Images hang off three levels at once through their denormalized
// event/equipment/room pointers; the sweep collects them from every level
// being removed. Timelines hang off events only.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/coilworks/magbook/pkg/types"
)

// rootIDColumns maps hierarchy tables to their primary key column.
var rootIDColumns = map[string]string{
	types.OrganizationsTable: "organization_id",
	types.SitesTable:         "site_id",
	types.RoomsTable:         "room_id",
	types.EquipmentTable:     "equipment_id",
	types.EventsTable:        "event_id",
	types.ImagesTable:        "image_id",
	types.TimelinesTable:     "timeline_id",
}

// DeleteCascade removes the entity with the given ID from the named table
// together with every transitive descendant, children before parents.
// Returns ErrNotFound if the root entity does not exist.
func (b *Backend) DeleteCascade(tableName, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	idColumn, ok := rootIDColumns[tableName]
	if !ok {
		return types.ErrTableNotFound
	}

	var exists int
	err := b.db.QueryRow(
		"SELECT 1 FROM "+tableName+" WHERE "+idColumn+" = ?", id,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking %s existence: %w", tableName, err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning cascade transaction: %w", err)
	}
	defer tx.Rollback()

	var orgIDs, siteIDs, roomIDs, equipmentIDs, eventIDs, imageIDs, timelineIDs []string
	switch tableName {
	case types.OrganizationsTable:
		orgIDs = []string{id}
	case types.SitesTable:
		siteIDs = []string{id}
	case types.RoomsTable:
		roomIDs = []string{id}
	case types.EquipmentTable:
		equipmentIDs = []string{id}
	case types.EventsTable:
		eventIDs = []string{id}
	case types.ImagesTable:
		imageIDs = []string{id}
	case types.TimelinesTable:
		timelineIDs = []string{id}
	}

	// Walk down one level at a time, widening the ID set at each hop.
	if len(orgIDs) > 0 {
		if siteIDs, err = selectIDs(tx, "sites", "site_id", "organization_id", orgIDs); err != nil {
			return err
		}
	}
	if len(siteIDs) > 0 {
		if roomIDs, err = selectIDs(tx, "rooms", "room_id", "site_id", siteIDs); err != nil {
			return err
		}
	}
	if len(roomIDs) > 0 {
		if equipmentIDs, err = selectIDs(tx, "equipment", "equipment_id", "room_id", roomIDs); err != nil {
			return err
		}
	}
	if len(equipmentIDs) > 0 {
		if eventIDs, err = selectIDs(tx, "events", "event_id", "equipment_id", equipmentIDs); err != nil {
			return err
		}
	}

	// Satellite sweep: images referencing any removed level, timelines
	// referencing removed events.
	for _, ref := range []struct {
		column string
		ids    []string
	}{
		{"event_id", eventIDs},
		{"equipment_id", equipmentIDs},
		{"room_id", roomIDs},
	} {
		if len(ref.ids) == 0 {
			continue
		}
		found, err := selectIDs(tx, "images", "image_id", ref.column, ref.ids)
		if err != nil {
			return err
		}
		imageIDs = append(imageIDs, found...)
	}
	imageIDs = dedupe(imageIDs)

	if len(eventIDs) > 0 {
		found, err := selectIDs(tx, "timelines", "timeline_id", "event_id", eventIDs)
		if err != nil {
			return err
		}
		timelineIDs = append(timelineIDs, found...)
	}

	// Delete deepest-first so no child ever outlives its parent.
	sweep := []struct {
		table  string
		column string
		ids    []string
	}{
		{"timelines", "timeline_id", timelineIDs},
		{"image_tags", "image_id", imageIDs},
		{"images", "image_id", imageIDs},
		{"events", "event_id", eventIDs},
		{"equipment", "equipment_id", equipmentIDs},
		{"rooms", "room_id", roomIDs},
		{"sites", "site_id", siteIDs},
		{"organizations", "organization_id", orgIDs},
	}
	var touched []string
	for _, step := range sweep {
		if len(step.ids) == 0 {
			continue
		}
		if err := deleteWhereIn(tx, step.table, step.column, step.ids); err != nil {
			return err
		}
		if step.table != "image_tags" {
			touched = append(touched, step.table)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cascade: %w", err)
	}

	b.watch.notify(touched...)
	return nil
}

// selectIDs returns the distinct idColumn values of rows whose refColumn
// matches any of the given parent IDs.
func selectIDs(tx *sql.Tx, table, idColumn, refColumn string, parents []string) ([]string, error) {
	var ids []string
	for _, chunk := range chunkStrings(parents, maxInArgs) {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		args := make([]any, len(chunk))
		for i, v := range chunk {
			args[i] = v
		}
		rows, err := tx.Query(
			"SELECT "+idColumn+" FROM "+table+" WHERE "+refColumn+" IN ("+placeholders+")",
			args...)
		if err != nil {
			return nil, fmt.Errorf("collecting %s by %s: %w", table, refColumn, err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s id: %w", table, err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterating %s ids: %w", table, err)
		}
		rows.Close()
	}
	return ids, nil
}

// deleteWhereIn removes rows whose column matches any of the given IDs.
func deleteWhereIn(tx *sql.Tx, table, column string, ids []string) error {
	for _, chunk := range chunkStrings(ids, maxInArgs) {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		args := make([]any, len(chunk))
		for i, v := range chunk {
			args[i] = v
		}
		if _, err := tx.Exec(
			"DELETE FROM "+table+" WHERE "+column+" IN ("+placeholders+")", args...); err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}
	return nil
}

// dedupe removes duplicate IDs, preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
