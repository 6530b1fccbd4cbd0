package types

// Composite read results: a parent entity bundled with its immediate
// children. Child slices are never nil; a childless parent carries an
// empty slice.

// OrganizationWithSites bundles an organization with its sites.
type OrganizationWithSites struct {
	Organization *Organization `json:"organization"`
	Sites        []*Site       `json:"sites"`
}

// SiteWithRooms bundles a site with its rooms.
type SiteWithRooms struct {
	Site  *Site   `json:"site"`
	Rooms []*Room `json:"rooms"`
}

// RoomWithEquipment bundles a room with its equipment.
type RoomWithEquipment struct {
	Room      *Room        `json:"room"`
	Equipment []*Equipment `json:"equipment"`
}

// EquipmentWithEvents bundles an equipment record with its events.
type EquipmentWithEvents struct {
	Equipment *Equipment `json:"equipment"`
	Events    []*Event   `json:"events"`
}

// EventWithImages bundles an event with its images.
type EventWithImages struct {
	Event  *Event   `json:"event"`
	Images []*Image `json:"images"`
}
