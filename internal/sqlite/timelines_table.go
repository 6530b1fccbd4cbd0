// Timelines table accessor. The image_ids column holds a JSON array of
// image IDs. The list is referential: deleting an image leaves timelines
// untouched, and dangling IDs are dropped when a timeline is read.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

var timelineColumns = []string{
	"timeline_id", "event_id", "image_ids", "created_at", "updated_at",
}

type timelinesTable struct {
	*table
}

func newTimelinesTable(b *Backend) types.Table {
	t := &table{
		backend: b,
		spec: tableSpec{
			name:     types.TimelinesTable,
			idColumn: "timeline_id",
			columns:  timelineColumns,
			queryable: map[string]bool{
				"event_id": true,
			},
			updatable: map[string]bool{
				"event_id": true, "image_ids": true,
			},
			bind:    bindTimeline,
			hydrate: hydrateTimeline,
		},
	}
	t.loadHook = func(entity any) error {
		return pruneDanglingImages(b.db, entity.(*types.Timeline))
	}
	return &timelinesTable{table: t}
}

// Update marshals an image_ids []string value into its stored JSON form
// before delegating to the generic path.
func (tt *timelinesTable) Update(id string, fields map[string]any) error {
	if v, ok := fields["image_ids"]; ok {
		ids, ok := v.([]string)
		if !ok {
			return types.ErrInvalidData
		}
		encoded, err := encodeImageIDs(ids)
		if err != nil {
			return err
		}
		fields["image_ids"] = encoded
	}
	return tt.table.Update(id, fields)
}

func bindTimeline(entity any, createdAt, updatedAt time.Time) ([]any, error) {
	t, ok := entity.(*types.Timeline)
	if !ok {
		return nil, types.ErrInvalidData
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.CreatedAt = createdAt
	t.UpdatedAt = updatedAt
	encoded, err := encodeImageIDs(t.ImageIDs)
	if err != nil {
		return nil, err
	}
	return []any{
		t.TimelineID, t.EventID, encoded,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	}, nil
}

func hydrateTimeline(rows *sql.Rows) (any, error) {
	var t types.Timeline
	var imageIDs, createdAt, updatedAt string
	if err := rows.Scan(
		&t.TimelineID, &t.EventID, &imageIDs, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(imageIDs), &t.ImageIDs); err != nil {
		return nil, fmt.Errorf("parsing image_ids: %w", err)
	}
	if t.ImageIDs == nil {
		t.ImageIDs = []string{}
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

// encodeImageIDs renders the image ID list as stored JSON, never null.
func encodeImageIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding image_ids: %w", err)
	}
	return string(encoded), nil
}

// pruneDanglingImages drops IDs of deleted images from the in-memory
// list. Lazy cleanup only; the stored row is left as written.
func pruneDanglingImages(db *sql.DB, t *types.Timeline) error {
	if len(t.ImageIDs) == 0 {
		return nil
	}

	live := make(map[string]bool, len(t.ImageIDs))
	for _, chunk := range chunkStrings(t.ImageIDs, maxInArgs) {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(chunk)), ", ")
		args := make([]any, len(chunk))
		for i, v := range chunk {
			args[i] = v
		}
		rows, err := db.Query(
			"SELECT image_id FROM images WHERE image_id IN ("+placeholders+")", args...)
		if err != nil {
			return fmt.Errorf("querying live images: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scanning image id: %w", err)
			}
			live[id] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating live images: %w", err)
		}
		rows.Close()
	}

	kept := t.ImageIDs[:0]
	for _, id := range t.ImageIDs {
		if live[id] {
			kept = append(kept, id)
		}
	}
	t.ImageIDs = kept
	return nil
}
