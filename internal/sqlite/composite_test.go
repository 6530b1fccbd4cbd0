// Tests for composite reads.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coilworks/magbook/pkg/types"
)

func TestGetOrganizationWithSites(t *testing.T) {
	b := setupBackend(t)
	h := seedHierarchy(t, b)

	result, err := b.GetOrganizationWithSites(h.org)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Meridian Imaging", result.Organization.Name)
	require.Len(t, result.Sites, 1)
	assert.Equal(t, h.site, result.Sites[0].SiteID)
}

func TestGetSiteWithRooms(t *testing.T) {
	b := setupBackend(t)
	h := seedHierarchy(t, b)

	result, err := b.GetSiteWithRooms(h.site)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, h.site, result.Site.SiteID)
	assert.Len(t, result.Rooms, 2)
}

func TestGetRoomWithEquipment(t *testing.T) {
	b := setupBackend(t)
	h := seedHierarchy(t, b)

	result, err := b.GetRoomWithEquipment(h.room)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Equipment, 1)
	assert.Equal(t, h.equipment, result.Equipment[0].EquipmentID)
}

func TestGetEquipmentWithEvents(t *testing.T) {
	b := setupBackend(t)
	h := seedHierarchy(t, b)

	result, err := b.GetEquipmentWithEvents(h.equipment)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Events, 1)
	assert.Equal(t, h.event, result.Events[0].EventID)
}

func TestGetEventWithImages(t *testing.T) {
	b := setupBackend(t)
	h := seedHierarchy(t, b)

	result, err := b.GetEventWithImages(h.event)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Images, 1)
	assert.Equal(t, h.image, result.Images[0].ImageID)
	// Images come back with their tags attached.
	assert.Equal(t, []string{"before"}, result.Images[0].Tags)
}

func TestComposite_AbsentParent(t *testing.T) {
	b := setupBackend(t)

	org, err := b.GetOrganizationWithSites("missing")
	require.NoError(t, err)
	assert.Nil(t, org)

	site, err := b.GetSiteWithRooms("missing")
	require.NoError(t, err)
	assert.Nil(t, site)

	room, err := b.GetRoomWithEquipment("missing")
	require.NoError(t, err)
	assert.Nil(t, room)

	equipment, err := b.GetEquipmentWithEvents("missing")
	require.NoError(t, err)
	assert.Nil(t, equipment)

	event, err := b.GetEventWithImages("missing")
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestComposite_ChildlessParent(t *testing.T) {
	b := setupBackend(t)

	table, err := b.GetTable(types.OrganizationsTable)
	require.NoError(t, err)
	require.NoError(t, table.Add(&types.Organization{
		OrganizationID: "org-solo", Name: "Solo Org",
	}))

	result, err := b.GetOrganizationWithSites("org-solo")
	require.NoError(t, err)
	require.NotNil(t, result)
	// Empty slice, not nil: callers can range without a nil check.
	assert.NotNil(t, result.Sites)
	assert.Empty(t, result.Sites)
}
