// Package collator folds accented characters to plain ASCII so that
// "café" and "cafe" compare equal, and provides the case-insensitive
// containment checks used by the matcher.
package collator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// wideEnd bounds the second lookup table. It covers the Latin extensions,
// IPA, Latin Extended Additional, general punctuation, letterlike symbols,
// number forms and enclosed alphanumerics.
const wideEnd = 0x2500

// Collator holds the folding tables. A zero entry means "no mapping".
// It is immutable after New and safe for concurrent use.
type Collator struct {
	latin [256]byte
	wide  [wideEnd - 256]byte
}

// Letters that have no canonical decomposition but an obvious ASCII
// reading.
var extraFolds = map[rune]byte{
	'Æ': 'A', 'æ': 'a', 'Ð': 'D', 'ð': 'd', 'Ø': 'O', 'ø': 'o',
	'Þ': 'T', 'þ': 't', 'ß': 's', 'Đ': 'D', 'đ': 'd', 'Ħ': 'H',
	'ħ': 'h', 'ı': 'i', 'ĸ': 'k', 'Ł': 'L', 'ł': 'l', 'Ŋ': 'N',
	'ŋ': 'n', 'Œ': 'O', 'œ': 'o', 'Ŧ': 'T', 'ŧ': 't', 'ƒ': 'f',
	'\u2010': '-', '\u2011': '-', '\u2012': '-', '\u2013': '-', '\u2014': '-',
	'\u2018': '\'', '\u2019': '\'', '\u201a': '\'', '\u201c': '"', '\u201d': '"',
}

// New builds the folding tables from the NFKD decomposition of every code
// point below wideEnd, keeping those that reduce to a single printable
// ASCII character once combining marks are removed.
func New() *Collator {
	c := &Collator{}
	strip := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

	for r := rune(1); r < wideEnd; r++ {
		var folded byte
		if r < utf8.RuneSelf {
			folded = byte(r)
		} else if f, ok := extraFolds[r]; ok {
			folded = f
		} else {
			folded = asciiReduction(strip, r)
		}
		if r < 256 {
			c.latin[r] = folded
		} else {
			c.wide[r-256] = folded
		}
	}
	return c
}

func asciiReduction(t transform.Transformer, r rune) byte {
	if !utf8.ValidRune(r) {
		return 0
	}
	s, _, err := transform.String(t, string(r))
	if err != nil || len(s) != 1 || s[0] < ' ' || s[0] > '~' {
		return 0
	}
	return s[0]
}

// Fold returns the ASCII replacement for r, or r itself when the tables
// have none.
func (c *Collator) Fold(r rune) rune {
	switch {
	case r < 0:
	case r < 256:
		if f := c.latin[r]; f != 0 {
			return rune(f)
		}
	case r < wideEnd:
		if f := c.wide[r-256]; f != 0 {
			return rune(f)
		}
	}
	return r
}

// ConvertToPlainAscii replaces every foldable character of s with its
// ASCII equivalent. Case is preserved and unmapped characters pass
// through unchanged.
func (c *Collator) ConvertToPlainAscii(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(c.Fold(r))
	}
	return b.String()
}

// FuzzyFind reports whether needle occurs in haystack after folding and
// lowercasing both.
func (c *Collator) FuzzyFind(haystack, needle string) bool {
	return c.Compile(needle).FindIn(haystack)
}

// lowerFold folds r and lowercases the result.
func (c *Collator) lowerFold(r rune) rune {
	r = c.Fold(r)
	switch {
	case 'A' <= r && r <= 'Z':
		return r + 'a' - 'A'
	case r >= utf8.RuneSelf:
		return unicode.ToLower(r)
	}
	return r
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
