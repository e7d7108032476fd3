// Package snapname maps free-form page ids and test titles to snapshot
// file names
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD decomposition
// 3 Case folding
// 4 Remove combining marks and zero-width format chars
// 5 Width fold halfwidth and fullwidth forms to ASCII
// 6 Collapse runs outside [a-z0-9._-] to a single dash and trim edges
// Empty results fall back to "snapshot"
package snapname

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Fallback is the name used when normalization leaves nothing behind
const Fallback = "snapshot"

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// NFKD first so precomposed accents decompose before the mark strip
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map halfwidth forms NFKD leaves behind
		)
	},
}

// Name returns the snapshot file name for s, without extension.
// The result is stable, contains only [a-z0-9._-], and never empty
func Name(s string) string {
	if n := normalize(s); n != "" {
		return n
	}
	return Fallback
}

// Join normalizes each part and joins the non-empty results with a dash.
// Parts that normalize to nothing are skipped rather than padded
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := normalize(p); n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return Fallback
	}
	return strings.Join(kept, "-")
}

func normalize(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-5 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 6 collapse to the slug alphabet
	return slugFold(ns)
}

// slugFold collapses runs outside [a-z0-9._-] to a single dash.
// Edge dashes are collapse artifacts and leading dots would hide the file,
// so both are trimmed
func slugFold(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return strings.Trim(b.String(), "-.")
}
