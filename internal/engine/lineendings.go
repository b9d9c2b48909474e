package engine

import "strings"

// Line ending styles for todo files on disk.
const (
	LineEndingsUnix    = "unix"
	LineEndingsWindows = "windows"
)

// toUnix normalizes CRLF to LF. Merging always works on LF text.
func toUnix(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// encode converts LF text to the configured on-disk style.
func encode(s, style string) []byte {
	if style == LineEndingsWindows {
		s = strings.ReplaceAll(toUnix(s), "\n", "\r\n")
	}
	return []byte(s)
}
