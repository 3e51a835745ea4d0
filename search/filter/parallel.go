package filter

import (
	"cmp"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/noelzubin/launch_search/search"
	"golang.org/x/sync/errgroup"
)

// Below this many matches the sort runs on the calling goroutine.
const minParallelSort = 1 << 14

// Matches are reserved in the output array in batches of this size.
const reserveBatch = 256

// ParallelFilter scans the whole index concurrently and returns the
// matching record indices in rank order.
type ParallelFilter struct {
	matcher *Matcher
	workers int
}

// NewParallelFilter returns a filter running on workers goroutines, or on
// GOMAXPROCS goroutines when workers is not positive.
func NewParallelFilter(m *Matcher, workers int) *ParallelFilter {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ParallelFilter{matcher: m, workers: workers}
}

// Filter returns the indices of records matching keywords, sorted by rank.
//
// Workers reserve slots in a shared output array through an atomic write
// cursor, so the matching phase takes no locks. The order produced by that
// phase depends on scheduling; the sort that follows makes the result
// deterministic.
func (f *ParallelFilter) Filter(records []search.Record, keywords search.Keywords) []uint32 {
	q := f.matcher.Compile(keywords)
	out := make([]uint32, len(records))
	var cursor atomic.Int64

	chunk := (len(records) + f.workers - 1) / f.workers
	var g errgroup.Group
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		g.Go(func() error {
			var local [reserveBatch]uint32
			n := 0
			flush := func() {
				at := cursor.Add(int64(n)) - int64(n)
				copy(out[at:], local[:n])
				n = 0
			}
			for i := start; i < end; i++ {
				if !q.Match(records[i].Path) {
					continue
				}
				local[n] = uint32(i)
				n++
				if n == reserveBatch {
					flush()
				}
			}
			if n > 0 {
				flush()
			}
			return nil
		})
	}
	_ = g.Wait()

	matched := slices.Clip(out[:cursor.Load()])
	SortRanked(records, matched, f.workers)
	return matched
}

// SortRanked sorts record indices by rank. Sorted runs are produced
// concurrently and then merged pairwise. Equal records fall back to index
// order so the result never depends on the input order.
func SortRanked(records []search.Record, ids []uint32, workers int) {
	byRank := func(a, b uint32) int {
		if c := search.Compare(&records[a], &records[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	}

	if workers < 2 || len(ids) < minParallelSort {
		slices.SortFunc(ids, byRank)
		return
	}

	size := (len(ids) + workers - 1) / workers
	var runs [][]uint32
	var g errgroup.Group
	for start := 0; start < len(ids); start += size {
		run := ids[start:min(start+size, len(ids))]
		runs = append(runs, run)
		g.Go(func() error {
			slices.SortFunc(run, byRank)
			return nil
		})
	}
	_ = g.Wait()

	dst := make([]uint32, len(ids))
	src := ids
	inScratch := false
	for len(runs) > 1 {
		next := make([][]uint32, 0, (len(runs)+1)/2)
		var round errgroup.Group
		offset := 0
		for i := 0; i < len(runs); i += 2 {
			if i+1 == len(runs) {
				tail := dst[offset : offset+len(runs[i])]
				copy(tail, runs[i])
				next = append(next, tail)
				offset += len(tail)
				continue
			}
			a, b := runs[i], runs[i+1]
			merged := dst[offset : offset+len(a)+len(b)]
			round.Go(func() error {
				mergeRuns(merged, a, b, byRank)
				return nil
			})
			next = append(next, merged)
			offset += len(merged)
		}
		_ = round.Wait()
		runs = next
		src, dst = dst, src
		inScratch = !inScratch
	}
	if inScratch {
		copy(ids, src)
	}
}

func mergeRuns(out, a, b []uint32, byRank func(a, b uint32) int) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if byRank(a[i], b[j]) <= 0 {
			out[k] = a[i]
			i++
		} else {
			out[k] = b[j]
			j++
		}
		k++
	}
	k += copy(out[k:], a[i:])
	copy(out[k:], b[j:])
}
