package ytapi

import "yt-insight/models"

// IsValidComment reports whether c carries an author, some text and a like count.
func IsValidComment(c models.VideoComment) bool {
	return (c.TextDisplay != "" || c.TextOriginal != "") &&
		c.AuthorDisplayName != "" &&
		c.LikeCount != nil
}

// FilterValidComments returns the valid comments of in, in order, and how many were dropped.
// The input slice is not modified.
func FilterValidComments(in []models.VideoComment) ([]models.VideoComment, int) {
	kept := make([]models.VideoComment, 0, len(in))
	for _, c := range in {
		if IsValidComment(c) {
			kept = append(kept, c)
		}
	}
	return kept, len(in) - len(kept)
}
