package util

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewID returns "<prefix>_<ulid>" with the ULID lowercased.
func NewID(prefix string) string {
	return prefix + "_" + strings.ToLower(ulid.Make().String())
}

// IsID reports whether s is an identifier produced by NewID for prefix.
func IsID(s, prefix string) bool {
	suffix, ok := strings.CutPrefix(s, prefix+"_")
	if !ok || len(suffix) != ulid.EncodedSize {
		return false
	}
	if suffix != strings.ToLower(suffix) {
		return false
	}
	_, err := ulid.ParseStrict(suffix)
	return err == nil
}
