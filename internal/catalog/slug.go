package catalog

import (
	"encoding/base64"
	"unicode/utf8"
)

// Slug encodes a presenter name as a URL-safe cast id. It is reversible
// with Unslug.
func Slug(name string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(name))
}

// Unslug decodes a cast id produced by Slug.
func Unslug(id string) (string, bool) {
	b, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}
