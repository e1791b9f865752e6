package platform

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// FallbackFilenamePrefix is used when a name sanitizes to nothing.
	FallbackFilenamePrefix = "video-"
	// MaxFilenameBytes bounds the sanitized stem so that a collision suffix
	// and the extension still fit the common 255 byte name limit.
	MaxFilenameBytes = 200
)

var (
	illegalFilenameChars = strings.NewReplacer(`\`, "", "/", "", ":", "", "*", "", "?", "", `"`, "", "<", "", ">", "", "|", "")
	newlinesRegexp       = regexp.MustCompile(`[\r\n]+`)
)

// SanitizeFilename makes a display name safe to use as a file name on common
// filesystems. Unicode is preserved, long names are cut on a rune boundary.
func SanitizeFilename(name, id string) string {
	s := illegalFilenameChars.Replace(name)
	s = newlinesRegexp.ReplaceAllString(s, " ")
	s = strings.TrimSpace(truncateBytes(strings.TrimSpace(s), MaxFilenameBytes))
	if s == "" {
		return FallbackFilenamePrefix + id
	}
	return s
}

func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
