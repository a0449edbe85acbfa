package domain

import (
	"strings"
	"unicode"
)

// NormalizeName prepares a presenter or organization name for grouping:
//   - trims leading/trailing whitespace (including full-width spaces)
//   - compresses internal runs of whitespace into one ASCII space
//
// Case is preserved; names are mostly Japanese and compared as written.
func NormalizeName(name string) string {
	name = strings.TrimFunc(name, unicode.IsSpace)
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteByte(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
