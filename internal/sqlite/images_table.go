// Images table accessor. Tags live in the image_tags side table so they
// can be queried as a multi-valued index; the accessor keeps both in step.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

var imageColumns = []string{
	"image_id", "event_id", "equipment_id", "room_id", "data", "thumbnail",
	"caption", "captured_at", "created_at", "updated_at",
}

// imagesTable layers tag handling on top of the generic table.
type imagesTable struct {
	*table
}

func newImagesTable(b *Backend) types.Table {
	t := &table{
		backend: b,
		spec: tableSpec{
			name:     types.ImagesTable,
			idColumn: "image_id",
			columns:  imageColumns,
			queryable: map[string]bool{
				"event_id": true, "equipment_id": true, "room_id": true,
			},
			updatable: map[string]bool{
				"event_id": true, "equipment_id": true, "room_id": true,
				"data": true, "thumbnail": true, "caption": true,
				"captured_at": true,
			},
			bind:    bindImage,
			hydrate: hydrateImage,
		},
	}
	t.loadHook = func(entity any) error {
		return loadImageTags(b.db, entity.(*types.Image))
	}
	t.writeHook = func(tx *sql.Tx, entity any) error {
		return insertImageTags(tx, entity.(*types.Image))
	}
	t.deleteHook = func(tx *sql.Tx, id string) error {
		_, err := tx.Exec("DELETE FROM image_tags WHERE image_id = ?", id)
		return err
	}
	t.clearHook = func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM image_tags")
		return err
	}
	return &imagesTable{table: t}
}

// Where adds the "tag" pseudo-field backed by image_tags; all other
// fields go through the generic path.
func (it *imagesTable) Where(field string, values ...string) ([]any, error) {
	if field != "tag" {
		return it.table.Where(field, values...)
	}

	it.backend.mu.RLock()
	defer it.backend.mu.RUnlock()
	if !it.backend.attached {
		return nil, types.ErrStoreDetached
	}

	results := []any{}
	for _, chunk := range chunkStrings(values, maxInArgs) {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		query := "SELECT DISTINCT i." + strings.Join(imageColumns, ", i.") +
			" FROM images i JOIN image_tags t ON t.image_id = i.image_id" +
			" WHERE t.tag IN (" + placeholders + ")"
		args := make([]any, len(chunk))
		for i, v := range chunk {
			args[i] = v
		}
		hydrated, err := it.queryEntities(query, args...)
		if err != nil {
			return nil, err
		}
		results = append(results, hydrated...)
	}
	return results, nil
}

// Update accepts the extra "tags" field ([]string) and rewrites the side
// table after the row update succeeds.
func (it *imagesTable) Update(id string, fields map[string]any) error {
	tags, hasTags, err := popTags(fields)
	if err != nil {
		return err
	}

	if err := it.table.Update(id, fields); err != nil {
		return err
	}
	if !hasTags {
		return nil
	}

	it.backend.mu.Lock()
	defer it.backend.mu.Unlock()
	if !it.backend.attached {
		return types.ErrStoreDetached
	}

	tx, err := it.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM image_tags WHERE image_id = ?", id); err != nil {
		return fmt.Errorf("clearing image tags: %w", err)
	}
	if err := insertImageTags(tx, &types.Image{ImageID: id, Tags: tags}); err != nil {
		return fmt.Errorf("rewriting image tags: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tag rewrite: %w", err)
	}

	it.backend.watch.notify(types.ImagesTable)
	return nil
}

// popTags removes the "tags" key from fields, returning its value.
func popTags(fields map[string]any) ([]string, bool, error) {
	v, ok := fields["tags"]
	if !ok {
		return nil, false, nil
	}
	delete(fields, "tags")
	tags, ok := v.([]string)
	if !ok {
		return nil, false, types.ErrInvalidData
	}
	return tags, true, nil
}

func bindImage(entity any, createdAt, updatedAt time.Time) ([]any, error) {
	i, ok := entity.(*types.Image)
	if !ok {
		return nil, types.ErrInvalidData
	}
	if err := i.Validate(); err != nil {
		return nil, err
	}
	i.CreatedAt = createdAt
	i.UpdatedAt = updatedAt
	if i.CapturedAt.IsZero() {
		i.CapturedAt = createdAt
	}
	return []any{
		i.ImageID, i.EventID, i.EquipmentID, i.RoomID, i.Data, i.Thumbnail,
		i.Caption, formatTime(i.CapturedAt),
		formatTime(i.CreatedAt), formatTime(i.UpdatedAt),
	}, nil
}

func hydrateImage(rows *sql.Rows) (any, error) {
	var i types.Image
	var capturedAt, createdAt, updatedAt string
	if err := rows.Scan(
		&i.ImageID, &i.EventID, &i.EquipmentID, &i.RoomID, &i.Data,
		&i.Thumbnail, &i.Caption, &capturedAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if i.CapturedAt, err = parseTime(capturedAt); err != nil {
		return nil, fmt.Errorf("parsing captured_at: %w", err)
	}
	if i.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if i.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &i, nil
}

// loadImageTags fills in the image's tag set from the side table.
func loadImageTags(db *sql.DB, img *types.Image) error {
	rows, err := db.Query(
		"SELECT tag FROM image_tags WHERE image_id = ? ORDER BY tag ASC", img.ImageID)
	if err != nil {
		return fmt.Errorf("querying image tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return fmt.Errorf("scanning image tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating image tags: %w", err)
	}
	img.Tags = tags
	return nil
}

// insertImageTags writes one image_tags row per tag.
func insertImageTags(tx *sql.Tx, img *types.Image) error {
	for _, tag := range img.Tags {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO image_tags (image_id, tag) VALUES (?, ?)",
			img.ImageID, tag,
		); err != nil {
			return fmt.Errorf("inserting tag %s: %w", tag, err)
		}
	}
	return nil
}
