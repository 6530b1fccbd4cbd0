// Rooms table accessor. Rooms were stored in the locations table before
// schema version 3; the migration copies them across.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

var roomTableColumns = []string{
	"room_id", "site_id", "name", "address",
	"contact_name", "contact_phone", "created_at", "updated_at",
}

func newRoomsTable(b *Backend) types.Table {
	return &table{
		backend: b,
		spec: tableSpec{
			name:     types.RoomsTable,
			idColumn: "room_id",
			columns:  roomTableColumns,
			queryable: map[string]bool{
				"site_id": true,
			},
			updatable: map[string]bool{
				"site_id": true, "name": true, "address": true,
				"contact_name": true, "contact_phone": true,
			},
			bind:    bindRoom,
			hydrate: hydrateRoom,
		},
	}
}

func bindRoom(entity any, createdAt, updatedAt time.Time) ([]any, error) {
	r, ok := entity.(*types.Room)
	if !ok {
		return nil, types.ErrInvalidData
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	return []any{
		r.RoomID, r.SiteID, r.Name, r.Address,
		r.ContactName, r.ContactPhone, formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	}, nil
}

func hydrateRoom(rows *sql.Rows) (any, error) {
	var r types.Room
	var createdAt, updatedAt string
	if err := rows.Scan(
		&r.RoomID, &r.SiteID, &r.Name, &r.Address,
		&r.ContactName, &r.ContactPhone, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &r, nil
}
