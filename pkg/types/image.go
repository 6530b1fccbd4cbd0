package types

import "time"

// Image is a captured photo attached to an event. EventID, EquipmentID,
// and RoomID are optional denormalized parent pointers captured at write
// time so images can be filtered per level independently; they are never
// revalidated against the live parent chain.
type Image struct {
	ImageID     string    `json:"image_id"`
	EventID     string    `json:"event_id"`
	EquipmentID string    `json:"equipment_id"`
	RoomID      string    `json:"room_id"`
	Data        []byte    `json:"data"`
	Thumbnail   []byte    `json:"thumbnail"`
	Caption     string    `json:"caption"`
	Tags        []string  `json:"tags"`
	CapturedAt  time.Time `json:"captured_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks required fields before persistence.
func (i *Image) Validate() error {
	if i.ImageID == "" {
		return ErrInvalidID
	}
	if len(i.Data) == 0 {
		return ErrInvalidData
	}
	return nil
}

// HasTag reports whether the image carries the given tag.
func (i *Image) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
