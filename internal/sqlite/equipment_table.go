// Equipment table accessor.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

var equipmentColumns = []string{
	"equipment_id", "room_id", "name", "equipment_type", "manufacturer",
	"model", "serial_number", "field_strength", "status",
	"installed_at", "decommissioned_at", "created_at", "updated_at",
}

func newEquipmentTable(b *Backend) types.Table {
	return &table{
		backend: b,
		spec: tableSpec{
			name:     types.EquipmentTable,
			idColumn: "equipment_id",
			columns:  equipmentColumns,
			queryable: map[string]bool{
				"room_id": true, "equipment_type": true, "status": true,
			},
			updatable: map[string]bool{
				"room_id": true, "name": true, "equipment_type": true,
				"manufacturer": true, "model": true, "serial_number": true,
				"field_strength": true, "status": true,
				"installed_at": true, "decommissioned_at": true,
			},
			bind:    bindEquipment,
			hydrate: hydrateEquipment,
		},
	}
}

func bindEquipment(entity any, createdAt, updatedAt time.Time) ([]any, error) {
	e, ok := entity.(*types.Equipment)
	if !ok {
		return nil, types.ErrInvalidData
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	return []any{
		e.EquipmentID, e.RoomID, e.Name, e.EquipmentType, e.Manufacturer,
		e.Model, e.SerialNumber, e.FieldStrength, e.Status,
		formatTimePtr(e.InstalledAt), formatTimePtr(e.DecommissionedAt),
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	}, nil
}

func hydrateEquipment(rows *sql.Rows) (any, error) {
	var e types.Equipment
	var installedAt, decommissionedAt sql.NullString
	var createdAt, updatedAt string
	if err := rows.Scan(
		&e.EquipmentID, &e.RoomID, &e.Name, &e.EquipmentType, &e.Manufacturer,
		&e.Model, &e.SerialNumber, &e.FieldStrength, &e.Status,
		&installedAt, &decommissionedAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if e.InstalledAt, err = parseTimePtr(installedAt); err != nil {
		return nil, fmt.Errorf("parsing installed_at: %w", err)
	}
	if e.DecommissionedAt, err = parseTimePtr(decommissionedAt); err != nil {
		return nil, fmt.Errorf("parsing decommissioned_at: %w", err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}
