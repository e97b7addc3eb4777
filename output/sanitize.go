package output

import (
	"regexp"
	"strings"
)

// maxTitleLen caps the sanitized title to keep paths under filesystem limits.
const maxTitleLen = 100

var nonFilenameChars = regexp.MustCompile(`[^a-z0-9_-]`)

// SanitizeTitle converts a video title into a filesystem-safe slug:
// lowercased, spaces to underscores, everything outside [a-z0-9_-] stripped,
// capped at 100 characters.
func SanitizeTitle(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "_")
	s = nonFilenameChars.ReplaceAllString(s, "")
	if len(s) > maxTitleLen {
		s = s[:maxTitleLen]
	}
	return s
}
