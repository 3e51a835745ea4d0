package search

import (
	"context"
	"slices"
	"strings"
)

// Record is one indexed filesystem entry.
type Record struct {
	Path  string // Absolute path with forward slashes.
	Depth uint32 // Nesting level below the volume root.
	Uses  uint32 // How many times the entry was opened.
}

// Compare orders records by rank: most used first, then shallower,
// then shorter paths, then by path.
func Compare(a, b *Record) int {
	switch {
	case a.Uses != b.Uses:
		if a.Uses > b.Uses {
			return -1
		}
		return 1
	case a.Depth != b.Depth:
		if a.Depth < b.Depth {
			return -1
		}
		return 1
	case len(a.Path) != len(b.Path):
		return len(a.Path) - len(b.Path)
	}
	return strings.Compare(a.Path, b.Path)
}

// SortRecords sorts the index in place by rank.
func SortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return Compare(&a, &b)
	})
}

// ResultItem is a single entry produced by a ResultList.
type ResultItem interface {
	GetPath() string
}

// ResultList is a filterable, bidirectionally iterable source of results.
//
// Next(nil) returns the first item and Prev(nil) the last one. A nil return
// value means the list is exhausted in that direction.
type ResultList interface {
	FilterStrings(keywords Keywords)
	Next(after ResultItem) ResultItem
	Prev(before ResultItem) ResultItem
}

// The indexer that owns the file index and answers queries against it.
type FileIndexer interface {
	Load(ctx context.Context) error  // Load the index from disk or crawl when missing.
	FilterStrings(keywords Keywords) // Refilter all result lists.
	IncrementUses(path string)       // Record that path was opened.
	ResetUses(path string)           // Forget path as a favourite.
}
