// Tests for the images accessor and the image_tags side table.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coilworks/magbook/pkg/types"
)

func addImage(t *testing.T, b *Backend, id string, tags ...string) {
	t.Helper()
	table, err := b.GetTable(types.ImagesTable)
	require.NoError(t, err)
	require.NoError(t, table.Add(&types.Image{
		ImageID: id,
		EventID: "ev-1",
		Data:    []byte{0xFF, 0xD8, 0xFF},
		Tags:    tags,
	}))
}

func TestImagesTable_RoundTripWithTags(t *testing.T) {
	b := setupBackend(t)
	addImage(t, b, "im-1", "baseline", "artifact")

	table, err := b.GetTable(types.ImagesTable)
	require.NoError(t, err)
	entity, err := table.Get("im-1")
	require.NoError(t, err)
	got := entity.(*types.Image)

	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, got.Data)
	// Tags come back sorted.
	assert.Equal(t, []string{"artifact", "baseline"}, got.Tags)
	// captured_at defaults to the creation time when not provided.
	assert.True(t, got.CapturedAt.Equal(got.CreatedAt))
}

func TestImagesTable_EmptyDataRejected(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.ImagesTable)
	require.NoError(t, err)

	err = table.Add(&types.Image{ImageID: "im-1"})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestImagesTable_WhereTag(t *testing.T) {
	b := setupBackend(t)
	addImage(t, b, "im-1", "baseline")
	addImage(t, b, "im-2", "baseline", "artifact")
	addImage(t, b, "im-3", "artifact")
	addImage(t, b, "im-4")

	table, err := b.GetTable(types.ImagesTable)
	require.NoError(t, err)

	results, err := table.Where("tag", "baseline")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Multi-value match stays distinct even when an image carries both.
	results, err = table.Where("tag", "baseline", "artifact")
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = table.Where("tag", "missing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestImagesTable_UpdateTags(t *testing.T) {
	b := setupBackend(t)
	addImage(t, b, "im-1", "baseline")

	table, err := b.GetTable(types.ImagesTable)
	require.NoError(t, err)

	require.NoError(t, table.Update("im-1", map[string]any{
		"caption": "post-repair",
		"tags":    []string{"after", "repair"},
	}))

	entity, err := table.Get("im-1")
	require.NoError(t, err)
	got := entity.(*types.Image)
	assert.Equal(t, "post-repair", got.Caption)
	assert.Equal(t, []string{"after", "repair"}, got.Tags)

	// The old tag no longer matches.
	results, err := table.Where("tag", "baseline")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestImagesTable_DeleteRemovesTags(t *testing.T) {
	b := setupBackend(t)
	addImage(t, b, "im-1", "baseline")

	table, err := b.GetTable(types.ImagesTable)
	require.NoError(t, err)
	require.NoError(t, table.Delete("im-1"))

	var n int
	require.NoError(t, b.db.QueryRow(
		"SELECT COUNT(*) FROM image_tags WHERE image_id = 'im-1'").Scan(&n))
	assert.Zero(t, n)
}

func TestImagesTable_ClearRemovesTags(t *testing.T) {
	b := setupBackend(t)
	addImage(t, b, "im-1", "baseline")
	addImage(t, b, "im-2", "artifact")

	table, err := b.GetTable(types.ImagesTable)
	require.NoError(t, err)
	require.NoError(t, table.Clear())

	var n int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM image_tags").Scan(&n))
	assert.Zero(t, n)
}
