package ytapi

import (
	"regexp"
	"unicode/utf8"
)

// VideoIDLength is the length of every valid video identifier, in characters.
const VideoIDLength = 11

var videoIDPattern = regexp.MustCompile(`^.*(youtu.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// ExtractVideoID returns the 11-character video identifier embedded in raw,
// or "" when raw is not a recognisable video URL.
// Accepts watch?v=, &v=, youtu.be/, embed/, v/ and u/<x>/ forms.
func ExtractVideoID(raw string) string {
	m := videoIDPattern.FindStringSubmatch(raw)
	if m == nil || utf8.RuneCountInString(m[2]) != VideoIDLength {
		return ""
	}
	return m[2]
}
