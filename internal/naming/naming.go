// Package naming derives canonical performer names and search keys from
// library folder names.
package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// versionSuffix matches the "-2" / "_2" suffix used to disambiguate
// duplicate folder names.
var versionSuffix = regexp.MustCompile(`[_-]\d+$`)

// searchDelimiter replaces spaces in path-oriented search keys.
const searchDelimiter = "_"

// Normalize strips a trailing separator-plus-integer suffix and surrounding
// whitespace. An empty result means the folder name is unprocessable.
func Normalize(raw string) string {
	return strings.TrimSpace(versionSuffix.ReplaceAllString(raw, ""))
}

// SearchKey converts a name into the lower-cased, underscore-delimited form
// used for substring matches against storage paths.
func SearchKey(value string) string {
	return strings.ToLower(strings.ReplaceAll(value, " ", searchDelimiter))
}

// Fold returns the Unicode case-folded form of value, for case-insensitive
// equality of search terms and basenames.
func Fold(value string) string {
	return cases.Fold().String(value)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}
