package search

import (
	"strings"

	"github.com/samber/lo"
)

// MaxKeywords is the most keywords a query can hold.
const MaxKeywords = 8

// Keywords is an AND filter. Every keyword is lowercase and only the last
// one, the keyword being typed, may be empty.
type Keywords []string

// NewKeywords returns a query holding a single empty keyword.
func NewKeywords() Keywords {
	return Keywords{""}
}

// ParseKeywords builds a query from free text. Runs of spaces separate
// keywords; a trailing space opens a new, empty keyword.
func ParseKeywords(s string) Keywords {
	kw := NewKeywords()
	for _, c := range strings.ToLower(s) {
		kw = kw.AddChar(c)
	}
	return kw
}

// AddChar appends c to the last keyword. A space starts a new keyword
// unless the current one is empty or the query is full. Characters outside
// printable ASCII are ignored.
func (k Keywords) AddChar(c rune) Keywords {
	if len(k) == 0 {
		k = NewKeywords()
	}
	last := len(k) - 1
	if c == ' ' {
		if k[last] == "" || len(k) == MaxKeywords {
			return k
		}
		return append(append(Keywords(nil), k...), "")
	}
	if c < ' ' || c > '~' {
		return k
	}
	out := append(Keywords(nil), k...)
	out[last] += strings.ToLower(string(c))
	return out
}

// Backspace removes the last character, or the last keyword when it is
// already empty. The first keyword is never removed.
func (k Keywords) Backspace() Keywords {
	if len(k) == 0 {
		return NewKeywords()
	}
	last := len(k) - 1
	if k[last] != "" {
		out := append(Keywords(nil), k...)
		out[last] = out[last][:len(out[last])-1]
		return out
	}
	if len(k) > 1 {
		return k[:last]
	}
	return k
}

// Empty reports whether the query matches everything.
func (k Keywords) Empty() bool {
	return len(k.nonEmpty()) == 0
}

// Join renders the non-empty keywords separated by single spaces.
func (k Keywords) Join() string {
	return strings.Join(k.nonEmpty(), " ")
}

func (k Keywords) nonEmpty() []string {
	return lo.Filter(k, func(s string, _ int) bool {
		return s != ""
	})
}
