package util

import (
	"strings"
	"unicode/utf8"
)

// SanitizeDBText drops NUL bytes and invalid UTF-8 sequences, neither of
// which Postgres text columns accept. Award abstracts in older archives
// carry both.
func SanitizeDBText(value string) string {
	if value == "" {
		return value
	}
	if utf8.ValidString(value) && !strings.ContainsRune(value, 0) {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r == 0 || r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
