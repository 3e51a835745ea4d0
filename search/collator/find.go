package collator

import "unicode/utf8"

// Pattern is a needle folded once so it can be searched for in many
// haystacks.
type Pattern struct {
	c     *Collator
	runes []rune
}

// Compile folds and lowercases needle.
func (c *Collator) Compile(needle string) Pattern {
	p := Pattern{c: c, runes: make([]rune, 0, len(needle))}
	for _, r := range needle {
		p.runes = append(p.runes, c.lowerFold(r))
	}
	return p
}

// Empty reports whether the pattern matches everything.
func (p Pattern) Empty() bool {
	return len(p.runes) == 0
}

// FindIn reports whether the pattern occurs in haystack. The haystack is
// folded while it is scanned; nothing is allocated.
func (p Pattern) FindIn(haystack string) bool {
	start, _ := p.Index(haystack)
	return start >= 0
}

// Index returns the byte span of the first occurrence of the pattern in
// haystack, or -1, -1 when there is none. An empty pattern matches at 0.
func (p Pattern) Index(haystack string) (start, end int) {
	if len(p.runes) == 0 {
		return 0, 0
	}
	first := p.runes[0]
	for i := 0; i < len(haystack); {
		r, size := decodeAt(haystack, i)
		if p.c.lowerFold(r) == first {
			if end, ok := p.matchAt(haystack, i+size); ok {
				return i, end
			}
		}
		i += size
	}
	return -1, -1
}

// matchAt checks the rest of the pattern from byte i and returns where the
// match ends.
func (p Pattern) matchAt(s string, i int) (int, bool) {
	for _, want := range p.runes[1:] {
		if i >= len(s) {
			return 0, false
		}
		r, size := decodeAt(s, i)
		if p.c.lowerFold(r) != want {
			return 0, false
		}
		i += size
	}
	return i, true
}

func decodeAt(s string, i int) (rune, int) {
	if b := s[i]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(s[i:])
}

// ContainsCI reports whether needle occurs in value, ignoring ASCII case.
//
// The scan looks for the first needle byte and only then verifies the
// rest; on a mismatch it resumes right after the failed anchor.
func ContainsCI(value, needle string) bool {
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(value) {
		return false
	}
	first := lower(needle[0])
	last := len(value) - len(needle)
	for i := 0; i <= last; i++ {
		if lower(value[i]) != first {
			continue
		}
		j := 1
		for j < len(needle) && lower(value[i+j]) == lower(needle[j]) {
			j++
		}
		if j == len(needle) {
			return true
		}
	}
	return false
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}
