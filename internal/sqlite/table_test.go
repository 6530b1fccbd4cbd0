// Tests for the generic table engine through the equipment and events
// accessors.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coilworks/magbook/pkg/types"
)

func addEquipment(t *testing.T, b *Backend, id, roomID, name string) *types.Equipment {
	t.Helper()
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)
	e := &types.Equipment{
		EquipmentID:   id,
		RoomID:        roomID,
		Name:          name,
		EquipmentType: types.EquipmentScanner,
		Status:        types.EquipmentStatusActive,
	}
	require.NoError(t, table.Add(e))
	return e
}

func TestTable_AddGetRoundTrip(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	installed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &types.Equipment{
		EquipmentID:   "eq-1",
		RoomID:        "room-1",
		Name:          "Scanner A",
		EquipmentType: types.EquipmentScanner,
		Manufacturer:  "Siemens",
		Model:         "Prisma",
		SerialNumber:  "SN-0042",
		FieldStrength: "3T",
		Status:        types.EquipmentStatusActive,
		InstalledAt:   &installed,
	}
	require.NoError(t, table.Add(e))

	// Add stamps both timestamps.
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	entity, err := table.Get("eq-1")
	require.NoError(t, err)
	got := entity.(*types.Equipment)

	assert.Equal(t, "Scanner A", got.Name)
	assert.Equal(t, types.EquipmentScanner, got.EquipmentType)
	assert.Equal(t, "Siemens", got.Manufacturer)
	assert.Equal(t, "3T", got.FieldStrength)
	require.NotNil(t, got.InstalledAt)
	assert.True(t, got.InstalledAt.Equal(installed))
	assert.Nil(t, got.DecommissionedAt)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
}

func TestTable_AddErrors(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	tests := []struct {
		name    string
		entity  any
		wantErr error
	}{
		{
			name:    "missing ID",
			entity:  &types.Equipment{Name: "x", EquipmentType: "scanner", Status: "active"},
			wantErr: types.ErrInvalidID,
		},
		{
			name:    "missing name",
			entity:  &types.Equipment{EquipmentID: "eq-x", EquipmentType: "scanner", Status: "active"},
			wantErr: types.ErrInvalidName,
		},
		{
			name:    "bad type",
			entity:  &types.Equipment{EquipmentID: "eq-x", Name: "x", EquipmentType: "laser", Status: "active"},
			wantErr: types.ErrInvalidType,
		},
		{
			name:    "bad status",
			entity:  &types.Equipment{EquipmentID: "eq-x", Name: "x", EquipmentType: "scanner", Status: "broken"},
			wantErr: types.ErrInvalidStatus,
		},
		{
			name:    "wrong entity type",
			entity:  &types.Event{EventID: "ev-x"},
			wantErr: types.ErrInvalidData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, table.Add(tt.entity), tt.wantErr)
		})
	}
}

func TestTable_AddDuplicateID(t *testing.T) {
	b := setupBackend(t)
	addEquipment(t, b, "eq-1", "room-1", "Scanner A")

	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)
	dup := &types.Equipment{
		EquipmentID:   "eq-1",
		RoomID:        "room-2",
		Name:          "Scanner B",
		EquipmentType: types.EquipmentScanner,
		Status:        types.EquipmentStatusActive,
	}
	assert.ErrorIs(t, table.Add(dup), types.ErrDuplicateID)

	// The original row is untouched.
	entity, err := table.Get("eq-1")
	require.NoError(t, err)
	assert.Equal(t, "Scanner A", entity.(*types.Equipment).Name)
}

func TestTable_GetNotFound(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	_, err = table.Get("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = table.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestTable_Update(t *testing.T) {
	b := setupBackend(t)
	e := addEquipment(t, b, "eq-1", "room-1", "Scanner A")

	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	require.NoError(t, table.Update("eq-1", map[string]any{
		"status": types.EquipmentStatusInactive,
	}))

	entity, err := table.Get("eq-1")
	require.NoError(t, err)
	got := entity.(*types.Equipment)

	// Named field changed, everything else kept, updated_at advanced.
	assert.Equal(t, types.EquipmentStatusInactive, got.Status)
	assert.Equal(t, "Scanner A", got.Name)
	assert.True(t, got.CreatedAt.Equal(e.CreatedAt))
	assert.True(t, got.UpdatedAt.After(e.UpdatedAt))
}

func TestTable_UpdateErrors(t *testing.T) {
	b := setupBackend(t)
	addEquipment(t, b, "eq-1", "room-1", "Scanner A")

	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	err = table.Update("missing", map[string]any{"status": "inactive"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	err = table.Update("eq-1", map[string]any{"equipment_id": "eq-2"})
	assert.ErrorIs(t, err, types.ErrInvalidField)

	err = table.Update("eq-1", map[string]any{"no_such_column": 1})
	assert.ErrorIs(t, err, types.ErrInvalidField)

	// A rejected update leaves the row unchanged.
	entity, err := table.Get("eq-1")
	require.NoError(t, err)
	assert.Equal(t, types.EquipmentStatusActive, entity.(*types.Equipment).Status)
}

func TestTable_UpdateTimeField(t *testing.T) {
	b := setupBackend(t)
	addEquipment(t, b, "eq-1", "room-1", "Scanner A")

	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, table.Update("eq-1", map[string]any{
		"status":            types.EquipmentStatusDecommissioned,
		"decommissioned_at": &at,
	}))

	entity, err := table.Get("eq-1")
	require.NoError(t, err)
	got := entity.(*types.Equipment)
	require.NotNil(t, got.DecommissionedAt)
	assert.True(t, got.DecommissionedAt.Equal(at))
}

func TestTable_Delete(t *testing.T) {
	b := setupBackend(t)
	addEquipment(t, b, "eq-1", "room-1", "Scanner A")

	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	require.NoError(t, table.Delete("eq-1"))
	_, err = table.Get("eq-1")
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Deleting an absent entity is a no-op.
	assert.NoError(t, table.Delete("eq-1"))
	assert.NoError(t, table.Delete("never-existed"))
}

func TestTable_Where(t *testing.T) {
	b := setupBackend(t)
	addEquipment(t, b, "eq-1", "room-1", "Scanner A")
	addEquipment(t, b, "eq-2", "room-1", "Coil rack")
	addEquipment(t, b, "eq-3", "room-2", "Scanner B")

	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	results, err := table.Where("room_id", "room-1")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// anyOf semantics: values are ORed.
	results, err = table.Where("room_id", "room-1", "room-2")
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = table.Where("room_id", "room-9")
	require.NoError(t, err)
	assert.Empty(t, results)

	// Only indexed fields are queryable.
	_, err = table.Where("name", "Scanner A")
	assert.ErrorIs(t, err, types.ErrInvalidField)
}

func TestTable_AllCountClear(t *testing.T) {
	b := setupBackend(t)
	addEquipment(t, b, "eq-1", "room-1", "Scanner A")
	addEquipment(t, b, "eq-2", "room-1", "Coil rack")

	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)

	all, err := table.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	n, err := table.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, table.Clear())

	n, err = table.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err = table.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTable_DetachedErrors(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EquipmentTable)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	_, err = table.Get("eq-1")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, table.Add(&types.Equipment{}), types.ErrStoreDetached)
	assert.ErrorIs(t, table.Update("eq-1", nil), types.ErrStoreDetached)
	assert.ErrorIs(t, table.Delete("eq-1"), types.ErrStoreDetached)
	_, err = table.Where("room_id", "room-1")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = table.All()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = table.Count()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, table.Clear(), types.ErrStoreDetached)
}

func TestEventsTable_NullableTimes(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EventsTable)
	require.NoError(t, err)

	event := &types.Event{
		EventID:     "ev-1",
		EquipmentID: "eq-1",
		RoomID:      "room-1",
		EventType:   types.EventCalibration,
		Status:      types.EventStatusScheduled,
		Title:       "Annual calibration",
	}
	require.NoError(t, table.Add(event))

	entity, err := table.Get("ev-1")
	require.NoError(t, err)
	got := entity.(*types.Event)
	assert.Nil(t, got.ScheduledAt)
	assert.Nil(t, got.StartedAt)
	assert.Nil(t, got.CompletedAt)

	started := time.Date(2025, 7, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, table.Update("ev-1", map[string]any{
		"status":     types.EventStatusInProgress,
		"started_at": &started,
	}))

	entity, err = table.Get("ev-1")
	require.NoError(t, err)
	got = entity.(*types.Event)
	assert.Equal(t, types.EventStatusInProgress, got.Status)
	require.NotNil(t, got.StartedAt)
	assert.True(t, got.StartedAt.Equal(started))
}

func TestChunkStrings(t *testing.T) {
	assert.Nil(t, chunkStrings(nil, 2))

	chunks := chunkStrings([]string{"a", "b", "c", "d", "e"}, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"c", "d"}, chunks[1])
	assert.Equal(t, []string{"e"}, chunks[2])
}
