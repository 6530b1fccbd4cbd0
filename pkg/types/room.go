package types

import "time"

// Room is a scanner room or lab space within a site. Known as "location"
// in schema versions 1 and 2; renamed at version 3.
type Room struct {
	RoomID       string    `json:"room_id"`
	SiteID       string    `json:"site_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	ContactName  string    `json:"contact_name"`
	ContactPhone string    `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks required fields before persistence.
func (r *Room) Validate() error {
	if r.RoomID == "" {
		return ErrInvalidID
	}
	if r.Name == "" {
		return ErrInvalidName
	}
	return nil
}
