package types

import "time"

// Event types.
const (
	EventMaintenance  = "maintenance"
	EventRepair       = "repair"
	EventCalibration  = "calibration"
	EventInspection   = "inspection"
	EventQualityCheck = "quality_check"
	EventInstallation = "installation"
	EventUpgrade      = "upgrade"
	EventDecommission = "decommission"
	EventIncident     = "incident"
	EventOther        = "other"
)

// Event statuses. An event progresses through these during its lifecycle.
const (
	EventStatusScheduled  = "scheduled"
	EventStatusInProgress = "in_progress"
	EventStatusCompleted  = "completed"
	EventStatusCancelled  = "cancelled"
)

// validEventTypes is the set of recognized event type values.
var validEventTypes = map[string]bool{
	EventMaintenance:  true,
	EventRepair:       true,
	EventCalibration:  true,
	EventInspection:   true,
	EventQualityCheck: true,
	EventInstallation: true,
	EventUpgrade:      true,
	EventDecommission: true,
	EventIncident:     true,
	EventOther:        true,
}

// validEventStatuses is the set of recognized event status values.
var validEventStatuses = map[string]bool{
	EventStatusScheduled:  true,
	EventStatusInProgress: true,
	EventStatusCompleted:  true,
	EventStatusCancelled:  true,
}

// Event is a service or quality event recorded against a piece of
// equipment. RoomID is a denormalized copy of the equipment's room at the
// time the event was created; it is not revalidated afterwards.
type Event struct {
	EventID     string     `json:"event_id"`
	EquipmentID string     `json:"equipment_id"`
	RoomID      string     `json:"room_id"`
	EventType   string     `json:"event_type"`
	Status      string     `json:"status"`
	Title       string     `json:"title"`
	Findings    string     `json:"findings"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Validate checks required fields and enum values before persistence.
func (e *Event) Validate() error {
	if e.EventID == "" {
		return ErrInvalidID
	}
	if e.Title == "" {
		return ErrInvalidName
	}
	if !validEventTypes[e.EventType] {
		return ErrInvalidType
	}
	if !validEventStatuses[e.Status] {
		return ErrInvalidStatus
	}
	return nil
}

// Start moves the event from scheduled to in_progress and records the
// start time. Returns ErrInvalidTransition from any other status.
func (e *Event) Start(at time.Time) error {
	if e.Status != EventStatusScheduled {
		return ErrInvalidTransition
	}
	e.Status = EventStatusInProgress
	e.StartedAt = &at
	return nil
}

// Complete moves the event from in_progress to completed and records the
// completion time. Returns ErrInvalidTransition from any other status.
func (e *Event) Complete(at time.Time) error {
	if e.Status != EventStatusInProgress {
		return ErrInvalidTransition
	}
	e.Status = EventStatusCompleted
	e.CompletedAt = &at
	return nil
}

// Cancel moves the event to cancelled. Completed events cannot be
// cancelled. Idempotent on already cancelled events.
func (e *Event) Cancel() error {
	if e.Status == EventStatusCompleted {
		return ErrInvalidTransition
	}
	e.Status = EventStatusCancelled
	return nil
}
