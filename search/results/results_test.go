package results

import (
	"fmt"
	"testing"

	"github.com/noelzubin/launch_search/search"
	"github.com/noelzubin/launch_search/search/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(n int) []search.Record {
	records := make([]search.Record, n)
	for i := range records {
		records[i] = search.Record{
			Path:  fmt.Sprintf("/vol/dir%02d/file%02d.txt", i%4, i),
			Depth: 2,
			Uses:  uint32(i % 3 / 2 * (i + 1)),
		}
	}
	return records
}

type stream struct {
	fav       *FavoriteList
	index     *IndexList
	collector *PriorityCollector
}

func newStream(records []search.Record) stream {
	m := filter.NewMatcher(nil, true)
	fav := NewFavoriteList(records, m)
	index := NewIndexList(records, filter.NewParallelFilter(m, 4), fav)
	c := NewPriorityCollector(fav)
	c.AddList(index)
	c.FilterStrings(search.NewKeywords())
	return stream{fav: fav, index: index, collector: c}
}

func paths(list search.ResultList) []string {
	var out []string
	for it := list.Next(nil); it != nil; it = list.Next(it) {
		out = append(out, it.GetPath())
	}
	return out
}

func reversePaths(list search.ResultList) []string {
	var out []string
	for it := list.Prev(nil); it != nil; it = list.Prev(it) {
		out = append([]string{it.GetPath()}, out...)
	}
	return out
}

func TestFavoriteListHoldsUsedRecordsInRankOrder(t *testing.T) {
	records := []search.Record{
		{Path: "/a/never", Depth: 2},
		{Path: "/a/twice", Depth: 2, Uses: 2},
		{Path: "/a/b/five", Depth: 3, Uses: 5},
		{Path: "/a/b/twice", Depth: 3, Uses: 2},
	}
	fav := NewFavoriteList(records, filter.NewMatcher(nil, true))
	fav.FilterStrings(nil)

	assert.Equal(t, []string{"/a/b/five", "/a/twice", "/a/b/twice"}, paths(fav))
	assert.Equal(t, 3, fav.Count())
	assert.False(t, fav.Contains(0))
	assert.True(t, fav.Contains(2))

	fav.FilterStrings(search.Keywords{"twice"})
	assert.Equal(t, []string{"/a/twice", "/a/b/twice"}, paths(fav))
	assert.True(t, fav.Contains(2), "membership ignores the filter")

	records[0].Uses = 9
	fav.Refresh()
	assert.Equal(t, []string{"/a/twice", "/a/b/twice"}, paths(fav), "refresh keeps the filter")
	fav.FilterStrings(nil)
	assert.Equal(t, "/a/never", paths(fav)[0])
}

func TestIndexListExcludesFavorites(t *testing.T) {
	records := makeRecords(12)
	s := newStream(records)

	all := paths(s.collector)
	assert.Len(t, all, len(records))
	seen := map[string]bool{}
	for _, p := range all {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
	}

	for _, p := range paths(s.index) {
		for _, f := range paths(s.fav) {
			assert.NotEqual(t, f, p)
		}
	}
}

func TestCollectorConcatenatesInPriorityOrder(t *testing.T) {
	records := makeRecords(20)
	s := newStream(records)

	want := append(paths(s.fav), paths(s.index)...)
	assert.Equal(t, want, paths(s.collector))
	assert.Equal(t, want, reversePaths(s.collector))

	s.collector.FilterStrings(search.Keywords{"dir01"})
	want = append(paths(s.fav), paths(s.index)...)
	for _, p := range want {
		assert.Contains(t, p, "dir01")
	}
	assert.Equal(t, want, paths(s.collector))
}

func TestCollectorSkipsEmptyLists(t *testing.T) {
	records := []search.Record{{Path: "/only/plain", Depth: 2}}
	s := newStream(records)

	assert.Equal(t, 0, s.fav.Len())
	assert.Equal(t, []string{"/only/plain"}, paths(s.collector))
	assert.Equal(t, []string{"/only/plain"}, reversePaths(s.collector))
}

func TestForeignCursorPanics(t *testing.T) {
	a := newStream(makeRecords(6))
	b := newStream(makeRecords(6))

	assert.Panics(t, func() { a.collector.Next(b.collector.Next(nil)) })
	assert.Panics(t, func() { a.index.Next(b.index.Next(nil)) })
	assert.Panics(t, func() { a.fav.Prev(a.index.Next(nil)) })
}

func TestReadmeExample(t *testing.T) {
	records := []search.Record{
		{Path: "C:/a/readme.txt", Depth: 1},
		{Path: "C:/b/RÉADME_FR.txt", Depth: 1, Uses: 3},
	}
	s := newStream(records)
	s.collector.FilterStrings(search.Keywords{"readme"})

	assert.Equal(t, []string{"C:/b/RÉADME_FR.txt", "C:/a/readme.txt"}, paths(s.collector))
}

func TestViewportTraversalVisitsEveryItemOnce(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 5, 6, 7, 23} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			s := newStream(makeRecords(n))
			want := paths(s.collector)

			v := NewViewport(s.collector)
			v.ResetItems(false)
			var down []string
			if it := v.Selected(); it != nil {
				down = append(down, it.GetPath())
			}
			for v.MoveDown() {
				down = append(down, v.Selected().GetPath())
			}
			assert.Equal(t, want, down)
			assert.False(t, v.MoveDown(), "stays blocked at the end")

			v.ResetItems(true)
			var up []string
			if it := v.Selected(); it != nil {
				up = append([]string{it.GetPath()}, up...)
			}
			for v.MoveUp() {
				up = append([]string{v.Selected().GetPath()}, up...)
			}
			assert.Equal(t, want, up)
		})
	}
}

func TestViewportWindow(t *testing.T) {
	s := newStream(makeRecords(9))
	all := paths(s.collector)
	v := NewViewport(s.collector)

	v.ResetItems(false)
	require.Len(t, v.Items(), ViewportSize)
	assert.Equal(t, 0, v.Selection())

	v.Move(2)
	assert.Equal(t, 2, v.Selection())
	assert.Equal(t, all[0], v.Items()[0].GetPath())

	// Past the centre the window scrolls and the selection stays put.
	v.Move(1)
	assert.Equal(t, 2, v.Selection())
	assert.Equal(t, all[1], v.Items()[0].GetPath())
	assert.Equal(t, all[3], v.Selected().GetPath())

	v.Move(100)
	assert.Equal(t, ViewportSize-1, v.Selection())
	assert.Equal(t, all[len(all)-1], v.Selected().GetPath())

	v.ResetItems(true)
	assert.Equal(t, ViewportSize-1, v.Selection())
	assert.Equal(t, all[len(all)-ViewportSize], v.Items()[0].GetPath())

	v.Move(-100)
	assert.Equal(t, 0, v.Selection())
	assert.Equal(t, all[0], v.Selected().GetPath())
}

func TestViewportShortStream(t *testing.T) {
	s := newStream(makeRecords(3))
	v := NewViewport(s.collector)

	v.ResetItems(true)
	assert.Len(t, v.Items(), 3)
	assert.Equal(t, 2, v.Selection())
	assert.False(t, v.MoveDown())
	assert.True(t, v.MoveUp())
	assert.Equal(t, 1, v.Selection())

	empty := NewViewport(newStream(nil).collector)
	empty.ResetItems(true)
	assert.Nil(t, empty.Selected())
	assert.Equal(t, 0, empty.Selection())
	assert.False(t, empty.MoveUp())
	assert.False(t, empty.MoveDown())
}
