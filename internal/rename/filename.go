// Package rename synthesizes canonical literature filenames and renames
// document files to match.
package rename

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// DefaultSeparator joins the filename segments.
	DefaultSeparator = "__"

	// MaxFilenameLength is the filename length limit on most filesystems.
	MaxFilenameLength = 255
)

// illegalChars are stripped from filename segments: path separators, glob
// wildcards, quotes, angle brackets and the colon.
var illegalChars = regexp.MustCompile(`[\\/*?:"<>|']`)

// Citation holds the metadata a canonical filename is derived from.
type Citation struct {
	Year    int
	Journal string
	Title   string
	Author  string
}

// Sanitize strips illegal filename characters from a segment. Sanitizing an
// already-sanitized string is a no-op.
func Sanitize(name string) string {
	return illegalChars.ReplaceAllString(name, "")
}

// Synthesize builds the canonical filename
// year<sep>journal<sep>title<sep>author<ext> from the citation. Segments are
// sanitized independently; the result is capped at MaxFilenameLength with
// the extension preserved. Purely a function of its inputs.
func Synthesize(c Citation, ext, sep string) string {
	name := fmt.Sprintf("%d%s%s%s%s%s%s",
		c.Year, sep,
		Sanitize(c.Journal), sep,
		Sanitize(c.Title), sep,
		Sanitize(c.Author)) + ext
	return Truncate(name, MaxFilenameLength)
}

// Truncate hard-truncates the stem of a too-long filename so the total
// length fits maxLen. The extension survives byte-for-byte.
func Truncate(filename string, maxLen int) string {
	if len(filename) <= maxLen {
		return filename
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	return stem[:maxLen-len(ext)] + ext
}

// IsCanonical reports whether a filename already follows the canonical
// shape: a 4-digit year followed by three separator-delimited segments.
// Batch passes consult this before reading or extracting anything, so
// already-renamed files cost nothing.
func IsCanonical(name, sep string) bool {
	q := regexp.QuoteMeta(sep)
	pattern := regexp.MustCompile(`^\d{4}` + q + `.*` + q + `.*` + q + `.*`)
	return pattern.MatchString(name)
}
