package filter

import (
	"github.com/noelzubin/launch_search/search"
	"github.com/noelzubin/launch_search/search/collator"
)

// Matcher decides whether a path satisfies every keyword of a query.
type Matcher struct {
	collator *collator.Collator
	folded   bool
}

// NewMatcher returns a matcher. With folded set, accented characters in
// paths match their plain ASCII keyword; otherwise only ASCII case is
// ignored.
func NewMatcher(c *collator.Collator, folded bool) *Matcher {
	if c == nil {
		c = collator.New()
	}
	return &Matcher{collator: c, folded: folded}
}

// Query is a keyword set prepared for repeated matching.
type Query struct {
	keywords []string
	patterns []collator.Pattern
}

// Compile prepares keywords. Empty keywords are dropped since they match
// every path.
func (m *Matcher) Compile(keywords search.Keywords) Query {
	var q Query
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if m.folded {
			q.patterns = append(q.patterns, m.collator.Compile(k))
		} else {
			q.keywords = append(q.keywords, k)
		}
	}
	return q
}

// MatchAll reports whether the query matches every path.
func (q Query) MatchAll() bool {
	return len(q.keywords) == 0 && len(q.patterns) == 0
}

// Match reports whether path contains every keyword, stopping at the
// first one missing.
func (q Query) Match(path string) bool {
	for _, k := range q.keywords {
		if !collator.ContainsCI(path, k) {
			return false
		}
	}
	for _, p := range q.patterns {
		if !p.FindIn(path) {
			return false
		}
	}
	return true
}

// Match is a convenience for one-off checks.
func (m *Matcher) Match(path string, keywords search.Keywords) bool {
	return m.Compile(keywords).Match(path)
}
