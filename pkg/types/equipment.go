package types

import "time"

// Equipment types.
const (
	EquipmentScanner     = "scanner"
	EquipmentCoil        = "coil"
	EquipmentPhantom     = "phantom"
	EquipmentWorkstation = "workstation"
	EquipmentOther       = "other"
)

// Equipment statuses.
const (
	EquipmentStatusActive         = "active"
	EquipmentStatusInactive       = "inactive"
	EquipmentStatusDecommissioned = "decommissioned"
)

// validEquipmentTypes is the set of recognized equipment type values.
var validEquipmentTypes = map[string]bool{
	EquipmentScanner:     true,
	EquipmentCoil:        true,
	EquipmentPhantom:     true,
	EquipmentWorkstation: true,
	EquipmentOther:       true,
}

// validEquipmentStatuses is the set of recognized equipment status values.
var validEquipmentStatuses = map[string]bool{
	EquipmentStatusActive:         true,
	EquipmentStatusInactive:       true,
	EquipmentStatusDecommissioned: true,
}

// Equipment is a piece of imaging equipment installed in a room.
type Equipment struct {
	EquipmentID      string     `json:"equipment_id"`
	RoomID           string     `json:"room_id"`
	Name             string     `json:"name"`
	EquipmentType    string     `json:"equipment_type"`
	Manufacturer     string     `json:"manufacturer"`
	Model            string     `json:"model"`
	SerialNumber     string     `json:"serial_number"`
	FieldStrength    string     `json:"field_strength"`
	Status           string     `json:"status"`
	InstalledAt      *time.Time `json:"installed_at"`
	DecommissionedAt *time.Time `json:"decommissioned_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Validate checks required fields and enum values before persistence.
func (e *Equipment) Validate() error {
	if e.EquipmentID == "" {
		return ErrInvalidID
	}
	if e.Name == "" {
		return ErrInvalidName
	}
	if !validEquipmentTypes[e.EquipmentType] {
		return ErrInvalidType
	}
	if !validEquipmentStatuses[e.Status] {
		return ErrInvalidStatus
	}
	return nil
}

// Decommission marks the equipment as decommissioned at the given time.
// Idempotent: decommissioning already decommissioned equipment keeps the
// original timestamp.
func (e *Equipment) Decommission(at time.Time) {
	if e.Status == EquipmentStatusDecommissioned {
		return
	}
	e.Status = EquipmentStatusDecommissioned
	e.DecommissionedAt = &at
}
