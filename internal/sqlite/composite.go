// Composite reads: fetch a parent entity together with its immediate
// children in one call. An absent parent yields (nil, nil) so callers can
// distinguish "gone" from "childless" without probing errors.
package sqlite

import (
	"errors"

	"github.com/coilworks/magbook/pkg/types"
)

// GetOrganizationWithSites returns the organization and its sites.
func (b *Backend) GetOrganizationWithSites(id string) (*types.OrganizationWithSites, error) {
	org, err := compositeParent[types.Organization](b, types.OrganizationsTable, id)
	if org == nil || err != nil {
		return nil, err
	}
	sites, err := compositeChildren[types.Site](b, types.SitesTable, "organization_id", id)
	if err != nil {
		return nil, err
	}
	return &types.OrganizationWithSites{Organization: org, Sites: sites}, nil
}

// GetSiteWithRooms returns the site and its rooms.
func (b *Backend) GetSiteWithRooms(id string) (*types.SiteWithRooms, error) {
	site, err := compositeParent[types.Site](b, types.SitesTable, id)
	if site == nil || err != nil {
		return nil, err
	}
	rooms, err := compositeChildren[types.Room](b, types.RoomsTable, "site_id", id)
	if err != nil {
		return nil, err
	}
	return &types.SiteWithRooms{Site: site, Rooms: rooms}, nil
}

// GetRoomWithEquipment returns the room and its equipment.
func (b *Backend) GetRoomWithEquipment(id string) (*types.RoomWithEquipment, error) {
	room, err := compositeParent[types.Room](b, types.RoomsTable, id)
	if room == nil || err != nil {
		return nil, err
	}
	equipment, err := compositeChildren[types.Equipment](b, types.EquipmentTable, "room_id", id)
	if err != nil {
		return nil, err
	}
	return &types.RoomWithEquipment{Room: room, Equipment: equipment}, nil
}

// GetEquipmentWithEvents returns the equipment record and its events.
func (b *Backend) GetEquipmentWithEvents(id string) (*types.EquipmentWithEvents, error) {
	equipment, err := compositeParent[types.Equipment](b, types.EquipmentTable, id)
	if equipment == nil || err != nil {
		return nil, err
	}
	events, err := compositeChildren[types.Event](b, types.EventsTable, "equipment_id", id)
	if err != nil {
		return nil, err
	}
	return &types.EquipmentWithEvents{Equipment: equipment, Events: events}, nil
}

// GetEventWithImages returns the event and the images captured for it.
func (b *Backend) GetEventWithImages(id string) (*types.EventWithImages, error) {
	event, err := compositeParent[types.Event](b, types.EventsTable, id)
	if event == nil || err != nil {
		return nil, err
	}
	images, err := compositeChildren[types.Image](b, types.ImagesTable, "event_id", id)
	if err != nil {
		return nil, err
	}
	return &types.EventWithImages{Event: event, Images: images}, nil
}

// compositeParent fetches the parent entity, mapping ErrNotFound to a nil
// result rather than an error.
func compositeParent[E any](b *Backend, tableName, id string) (*E, error) {
	tbl, err := b.GetTable(tableName)
	if err != nil {
		return nil, err
	}
	entity, err := tbl.Get(id)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	parent, ok := entity.(*E)
	if !ok {
		return nil, types.ErrInvalidData
	}
	return parent, nil
}

// compositeChildren fetches the children referencing parentID. The result
// is never nil.
func compositeChildren[E any](b *Backend, tableName, refColumn, parentID string) ([]*E, error) {
	tbl, err := b.GetTable(tableName)
	if err != nil {
		return nil, err
	}
	entities, err := tbl.Where(refColumn, parentID)
	if err != nil {
		return nil, err
	}
	children := make([]*E, 0, len(entities))
	for _, entity := range entities {
		child, ok := entity.(*E)
		if !ok {
			return nil, types.ErrInvalidData
		}
		children = append(children, child)
	}
	return children, nil
}
