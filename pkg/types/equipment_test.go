package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipmentValidate(t *testing.T) {
	valid := func() *Equipment {
		return &Equipment{
			EquipmentID:   "eq-1",
			RoomID:        "room-1",
			Name:          "Scanner A",
			EquipmentType: EquipmentScanner,
			Status:        EquipmentStatusActive,
		}
	}

	assert.NoError(t, valid().Validate())

	e := valid()
	e.EquipmentID = ""
	assert.ErrorIs(t, e.Validate(), ErrInvalidID)

	e = valid()
	e.Name = ""
	assert.ErrorIs(t, e.Validate(), ErrInvalidName)

	e = valid()
	e.EquipmentType = "laser"
	assert.ErrorIs(t, e.Validate(), ErrInvalidType)

	e = valid()
	e.Status = "broken"
	assert.ErrorIs(t, e.Validate(), ErrInvalidStatus)
}

func TestEquipmentDecommission(t *testing.T) {
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	e := &Equipment{
		EquipmentID:   "eq-1",
		Name:          "Scanner A",
		EquipmentType: EquipmentScanner,
		Status:        EquipmentStatusActive,
	}

	e.Decommission(first)
	assert.Equal(t, EquipmentStatusDecommissioned, e.Status)
	require.NotNil(t, e.DecommissionedAt)
	assert.True(t, e.DecommissionedAt.Equal(first))

	// Re-decommissioning keeps the original timestamp.
	e.Decommission(later)
	assert.True(t, e.DecommissionedAt.Equal(first))
}
