// Package identity derives the stable keys that correlate catalog entries
// with overlay records. A game's identity is a deterministic function of its
// rom path, so it survives catalog regeneration as long as the rom itself
// did not move.
package identity

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// FromPath returns the identity for a rom path: the file's base name with
// the extension stripped. Two entries in the same system collide only when
// their source paths are identical, which is a data-integrity issue rather
// than something to merge silently.
func FromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NormalizeName reduces a display name to a loose comparison key used by the
// name-based fallback of add/remove: unicode-normalized, case-folded, "&"
// spelled out, punctuation dropped, whitespace collapsed. Path-derived
// identity always takes precedence; this is only consulted when an argument
// matches no path on disk.
func NormalizeName(name string) string {
	s := norm.NFC.String(name)
	s = strings.ReplaceAll(s, "&", " and ")
	s = folder.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// dropped
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
