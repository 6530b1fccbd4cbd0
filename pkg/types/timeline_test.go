package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimelineAppendImage(t *testing.T) {
	tl := &Timeline{TimelineID: "tl-1", EventID: "ev-1"}

	tl.AppendImage("im-1")
	tl.AppendImage("im-2")
	assert.Equal(t, []string{"im-1", "im-2"}, tl.ImageIDs)

	// Appending an existing ID is a no-op.
	tl.AppendImage("im-1")
	assert.Equal(t, []string{"im-1", "im-2"}, tl.ImageIDs)
}

func TestTimelineRemoveImage(t *testing.T) {
	tl := &Timeline{
		TimelineID: "tl-1",
		EventID:    "ev-1",
		ImageIDs:   []string{"im-1", "im-2", "im-3"},
	}

	tl.RemoveImage("im-2")
	assert.Equal(t, []string{"im-1", "im-3"}, tl.ImageIDs)

	// Removing an absent ID is a no-op.
	tl.RemoveImage("im-9")
	assert.Equal(t, []string{"im-1", "im-3"}, tl.ImageIDs)
}

func TestTimelineValidate(t *testing.T) {
	tl := &Timeline{TimelineID: "tl-1", EventID: "ev-1"}
	assert.NoError(t, tl.Validate())

	assert.ErrorIs(t, (&Timeline{EventID: "ev-1"}).Validate(), ErrInvalidID)
	assert.ErrorIs(t, (&Timeline{TimelineID: "tl-1"}).Validate(), ErrInvalidData)
}

func TestImageHasTag(t *testing.T) {
	img := &Image{ImageID: "im-1", Data: []byte{1}, Tags: []string{"before", "baseline"}}
	assert.True(t, img.HasTag("baseline"))
	assert.False(t, img.HasTag("after"))
	assert.False(t, (&Image{}).HasTag("any"))
}
