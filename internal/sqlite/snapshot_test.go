// Tests for JSONL snapshot and restore.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coilworks/magbook/pkg/types"
)

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	b := setupBackend(t)
	h := seedHierarchy(t, b)
	snapDir := t.TempDir()

	require.NoError(t, b.Snapshot(snapDir))

	// One file per physical table, side tables included.
	for _, name := range []string{
		"organizations", "sites", "rooms", "equipment",
		"events", "images", "image_tags", "timelines",
	} {
		_, err := os.Stat(filepath.Join(snapDir, name+".jsonl"))
		assert.NoError(t, err, "%s.jsonl missing", name)
	}

	// Restore into a brand new store.
	b2 := setupBackend(t)
	require.NoError(t, b2.Restore(snapDir))

	rooms, err := b2.GetTable(types.RoomsTable)
	require.NoError(t, err)
	entity, err := rooms.Get(h.room)
	require.NoError(t, err)
	assert.Equal(t, "Suite 1", entity.(*types.Room).Name)

	// Binary image data survives the text round trip.
	images, err := b2.GetTable(types.ImagesTable)
	require.NoError(t, err)
	entity, err = images.Get(h.image)
	require.NoError(t, err)
	img := entity.(*types.Image)
	assert.Equal(t, []byte{0xFF, 0xD8}, img.Data)
	assert.Equal(t, []string{"before"}, img.Tags)

	timelines, err := b2.GetTable(types.TimelinesTable)
	require.NoError(t, err)
	entity, err = timelines.Get(h.timeline)
	require.NoError(t, err)
	assert.Equal(t, []string{h.image}, entity.(*types.Timeline).ImageIDs)
}

func TestRestore_ReplacesExistingContents(t *testing.T) {
	b := setupBackend(t)
	seedHierarchy(t, b)
	snapDir := t.TempDir()
	require.NoError(t, b.Snapshot(snapDir))

	// Write extra rows after the snapshot; restore must drop them.
	orgs, err := b.GetTable(types.OrganizationsTable)
	require.NoError(t, err)
	require.NoError(t, orgs.Add(&types.Organization{
		OrganizationID: "org-extra", Name: "Extra Org",
	}))

	require.NoError(t, b.Restore(snapDir))

	_, err = orgs.Get("org-extra")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = orgs.Get("org-1")
	assert.NoError(t, err)
}

func TestRestore_MissingFilesMeanEmptyTables(t *testing.T) {
	b := setupBackend(t)
	seedHierarchy(t, b)

	// Restoring from an empty directory clears everything.
	require.NoError(t, b.Restore(t.TempDir()))

	for _, name := range types.StandardTableNames {
		table, err := b.GetTable(name)
		require.NoError(t, err)
		n, err := table.Count()
		require.NoError(t, err)
		assert.Zero(t, n, "table %s should be empty", name)
	}
}

func TestSnapshot_SkipsMalformedLinesOnRestore(t *testing.T) {
	b := setupBackend(t)
	snapDir := t.TempDir()

	content := `{"organization_id":"org-1","name":"Good Org","contact_name":"","contact_email":"","contact_phone":"","notes":"","created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}
not json at all
{"organization_id":"org-2","name":"Also Good","contact_name":"","contact_email":"","contact_phone":"","notes":"","created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}
`
	require.NoError(t, os.WriteFile(
		filepath.Join(snapDir, "organizations.jsonl"), []byte(content), 0o644))

	require.NoError(t, b.Restore(snapDir))

	orgs, err := b.GetTable(types.OrganizationsTable)
	require.NoError(t, err)
	n, err := orgs.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSnapshot_Detached(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.Detach())

	assert.ErrorIs(t, b.Snapshot(t.TempDir()), types.ErrStoreDetached)
	assert.ErrorIs(t, b.Restore(t.TempDir()), types.ErrStoreDetached)
}
