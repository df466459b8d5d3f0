// Package vault reads import targets from the document store: a directory, an
// in-memory map or a database table.
package vault

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// Normalize canonicalises a vault-relative path: backslashes become "/",
// repeated separators collapse, leading and trailing separators are trimmed,
// non-breaking spaces become spaces and the result is NFC-normalised. The
// empty path becomes "/".
func Normalize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.Map(func(r rune) rune {
		if r == '\u00a0' {
			return ' '
		}
		return r
	}, path)

	var b strings.Builder
	b.Grow(len(path))
	lastSlash := false
	for _, r := range path {
		if r == '/' {
			if lastSlash {
				continue
			}
			lastSlash = true
		} else {
			lastSlash = false
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), "/")
	if out == "" {
		return "/"
	}
	return norm.NFC.String(out)
}

// Normalizer exposes Normalize as an interfaces.PathNormalizer.
var Normalizer interfaces.PathNormalizer = interfaces.PathNormalizerFunc(Normalize)
