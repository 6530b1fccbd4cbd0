package types

import "time"

// Timeline is an ordered list of image IDs attached to an event. The list
// is referential, not owning: deleting an image does not shrink existing
// timelines. Dangling IDs are filtered against live images at read time.
type Timeline struct {
	TimelineID string    `json:"timeline_id"`
	EventID    string    `json:"event_id"`
	ImageIDs   []string  `json:"image_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks required fields before persistence.
func (t *Timeline) Validate() error {
	if t.TimelineID == "" {
		return ErrInvalidID
	}
	if t.EventID == "" {
		return ErrInvalidData
	}
	return nil
}

// AppendImage adds an image ID to the end of the timeline if not already
// present. Idempotent.
func (t *Timeline) AppendImage(imageID string) {
	for _, id := range t.ImageIDs {
		if id == imageID {
			return
		}
	}
	t.ImageIDs = append(t.ImageIDs, imageID)
}

// RemoveImage removes an image ID from the timeline. Removing an absent ID
// is a no-op.
func (t *Timeline) RemoveImage(imageID string) {
	kept := t.ImageIDs[:0]
	for _, id := range t.ImageIDs {
		if id != imageID {
			kept = append(kept, id)
		}
	}
	t.ImageIDs = kept
}
