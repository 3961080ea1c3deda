package ytapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yt-insight/models"
)

func likes(n int64) *int64 { return &n }

func TestFilterValidComments(t *testing.T) {
	in := []models.VideoComment{
		{ID: "1", AuthorDisplayName: "a", TextDisplay: "hi", LikeCount: likes(3)},
		{ID: "2", AuthorDisplayName: "", TextDisplay: "no author", LikeCount: likes(1)},
		{ID: "3", AuthorDisplayName: "b", TextOriginal: "original only", LikeCount: likes(0)},
		{ID: "4", AuthorDisplayName: "c", LikeCount: likes(5)},
		{ID: "5", AuthorDisplayName: "d", TextDisplay: "unknown likes"},
	}

	kept, removed := FilterValidComments(in)

	assert.Equal(t, 3, removed)
	if assert.Len(t, kept, 2) {
		assert.Equal(t, "1", kept[0].ID)
		assert.Equal(t, "3", kept[1].ID, "zero likes is a valid count")
	}
	assert.Len(t, in, 5, "input must not be modified")
}

func TestFilterValidComments_Idempotent(t *testing.T) {
	in := []models.VideoComment{
		{ID: "1", AuthorDisplayName: "a", TextDisplay: "hi", LikeCount: likes(3)},
		{ID: "2", TextDisplay: "x", LikeCount: likes(1)},
	}

	once, _ := FilterValidComments(in)
	twice, removed := FilterValidComments(once)

	assert.Equal(t, once, twice)
	assert.Zero(t, removed)
}

func TestFilterValidComments_Empty(t *testing.T) {
	kept, removed := FilterValidComments(nil)
	assert.NotNil(t, kept)
	assert.Empty(t, kept)
	assert.Zero(t, removed)
}
