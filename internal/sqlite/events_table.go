// Events table accessor. An event's room_id is a denormalized copy of the
// equipment's room at creation time.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

var eventColumns = []string{
	"event_id", "equipment_id", "room_id", "event_type", "status",
	"title", "findings", "scheduled_at", "started_at", "completed_at",
	"created_at", "updated_at",
}

func newEventsTable(b *Backend) types.Table {
	return &table{
		backend: b,
		spec: tableSpec{
			name:     types.EventsTable,
			idColumn: "event_id",
			columns:  eventColumns,
			queryable: map[string]bool{
				"equipment_id": true, "room_id": true,
				"event_type": true, "status": true,
			},
			updatable: map[string]bool{
				"equipment_id": true, "room_id": true, "event_type": true,
				"status": true, "title": true, "findings": true,
				"scheduled_at": true, "started_at": true, "completed_at": true,
			},
			bind:    bindEvent,
			hydrate: hydrateEvent,
		},
	}
}

func bindEvent(entity any, createdAt, updatedAt time.Time) ([]any, error) {
	e, ok := entity.(*types.Event)
	if !ok {
		return nil, types.ErrInvalidData
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	return []any{
		e.EventID, e.EquipmentID, e.RoomID, e.EventType, e.Status,
		e.Title, e.Findings, formatTimePtr(e.ScheduledAt),
		formatTimePtr(e.StartedAt), formatTimePtr(e.CompletedAt),
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	}, nil
}

func hydrateEvent(rows *sql.Rows) (any, error) {
	var e types.Event
	var scheduledAt, startedAt, completedAt sql.NullString
	var createdAt, updatedAt string
	if err := rows.Scan(
		&e.EventID, &e.EquipmentID, &e.RoomID, &e.EventType, &e.Status,
		&e.Title, &e.Findings, &scheduledAt, &startedAt, &completedAt,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if e.ScheduledAt, err = parseTimePtr(scheduledAt); err != nil {
		return nil, fmt.Errorf("parsing scheduled_at: %w", err)
	}
	if e.StartedAt, err = parseTimePtr(startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if e.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, fmt.Errorf("parsing completed_at: %w", err)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}
