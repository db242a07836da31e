// Package util contains small shared helpers with no domain dependencies.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives the canonical URL-safe identifier for a store name:
// lowercase, accents folded to ASCII, every run of non-alphanumerics
// collapsed to a single '-', leading/trailing separators trimmed.
// The result is deterministic so an availability pre-check and the later
// creation always compute the same slug.
func Slugify(name string) string {
	folded := foldAccents(name)

	var b strings.Builder
	b.Grow(len(folded))

	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// foldAccents decomposes the string and drops combining marks, so that
// "Café" folds to "Cafe" rather than losing the letter entirely.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return out
}
