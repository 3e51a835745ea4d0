// Package results turns filtered index views into one navigable stream:
// favourites first, then every other match.
package results

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/noelzubin/launch_search/search"
	"github.com/noelzubin/launch_search/search/filter"
	"github.com/samber/lo"
)

// Item is the cursor handed out by FavoriteList and IndexList.
type Item struct {
	ID    uint32 // Index of the record in the snapshot.
	path  string
	pos   int
	owner *view
}

func (i *Item) GetPath() string {
	return i.path
}

// view is a rank ordered selection of record ids with cursor iteration.
type view struct {
	records []search.Record
	ids     []uint32
}

func (v *view) at(pos int) search.ResultItem {
	if pos < 0 || pos >= len(v.ids) {
		return nil
	}
	id := v.ids[pos]
	return &Item{ID: id, path: v.records[id].Path, pos: pos, owner: v}
}

func (v *view) position(it search.ResultItem) int {
	item, ok := it.(*Item)
	if !ok || item.owner != v {
		panic("results: cursor does not belong to this list")
	}
	return item.pos
}

func (v *view) Next(after search.ResultItem) search.ResultItem {
	if after == nil {
		return v.at(0)
	}
	return v.at(v.position(after) + 1)
}

func (v *view) Prev(before search.ResultItem) search.ResultItem {
	if before == nil {
		return v.at(len(v.ids) - 1)
	}
	return v.at(v.position(before) - 1)
}

// Len returns the number of items in the current view.
func (v *view) Len() int {
	return len(v.ids)
}

// FavoriteList yields the records that have been opened before, most
// used first.
type FavoriteList struct {
	view
	matcher   *filter.Matcher
	keywords  search.Keywords
	favorites []uint32
	set       *roaring.Bitmap
}

// NewFavoriteList collects the favourites of records.
func NewFavoriteList(records []search.Record, m *filter.Matcher) *FavoriteList {
	f := &FavoriteList{
		view:    view{records: records},
		matcher: m,
		set:     roaring.New(),
	}
	f.Refresh()
	return f
}

// Refresh rescans the records for usage changes and reapplies the last
// filter.
func (f *FavoriteList) Refresh() {
	f.favorites = f.favorites[:0]
	f.set.Clear()
	for i := range f.records {
		if f.records[i].Uses > 0 {
			f.favorites = append(f.favorites, uint32(i))
		}
	}
	filter.SortRanked(f.records, f.favorites, 1)
	f.set.AddMany(f.favorites)
	f.FilterStrings(f.keywords)
}

// Contains reports whether the record with index id is a favourite,
// whether or not it matches the current filter.
func (f *FavoriteList) Contains(id uint32) bool {
	return f.set.Contains(id)
}

// Count returns the number of favourites regardless of the filter.
func (f *FavoriteList) Count() int {
	return len(f.favorites)
}

func (f *FavoriteList) FilterStrings(keywords search.Keywords) {
	f.keywords = keywords
	q := f.matcher.Compile(keywords)
	if q.MatchAll() {
		f.ids = f.favorites
		return
	}
	f.ids = lo.Filter(f.favorites, func(id uint32, _ int) bool {
		return q.Match(f.records[id].Path)
	})
}

// Excluder hides records that another list already yields.
type Excluder interface {
	Contains(id uint32) bool
}

// IndexList yields every matching record of the index that the excluder
// does not claim.
type IndexList struct {
	view
	filter  *filter.ParallelFilter
	exclude Excluder
}

// NewIndexList returns a list over records. exclude may be nil.
func NewIndexList(records []search.Record, f *filter.ParallelFilter, exclude Excluder) *IndexList {
	return &IndexList{
		view:    view{records: records},
		filter:  f,
		exclude: exclude,
	}
}

func (l *IndexList) FilterStrings(keywords search.Keywords) {
	ids := l.filter.Filter(l.records, keywords)
	if l.exclude != nil {
		ids = lo.Filter(ids, func(id uint32, _ int) bool {
			return !l.exclude.Contains(id)
		})
	}
	l.ids = ids
}
