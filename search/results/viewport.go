package results

import (
	"github.com/noelzubin/launch_search/search"
	"github.com/samber/lo"
)

// ViewportSize is the number of items shown at once.
const ViewportSize = 5

// centre is the slot the selection stays in while the window scrolls.
const centre = ViewportSize / 2

// Viewport is a sliding window with a selection over a result stream.
type Viewport struct {
	list      search.ResultList
	items     []search.ResultItem
	selection int
}

// NewViewport returns an empty viewport over list. Call ResetItems to
// fill it.
func NewViewport(list search.ResultList) *Viewport {
	return &Viewport{list: list, items: make([]search.ResultItem, 0, ViewportSize)}
}

// ResetItems refills the window from the start of the stream, or from its
// end when fromEnd is set, selecting the first or last item.
func (v *Viewport) ResetItems(fromEnd bool) {
	v.items = v.items[:0]
	step := v.list.Next
	if fromEnd {
		step = v.list.Prev
	}
	for it := step(nil); it != nil; it = step(it) {
		v.items = append(v.items, it)
		if len(v.items) == ViewportSize {
			break
		}
	}
	v.selection = 0
	if fromEnd {
		lo.Reverse(v.items)
		v.selection = max(len(v.items)-1, 0)
	}
}

// MoveUp moves the selection one item towards the start of the stream and
// reports whether anything moved.
func (v *Viewport) MoveUp() bool {
	switch {
	case len(v.items) == 0:
		return false
	case len(v.items) < ViewportSize:
		if v.selection == 0 {
			return false
		}
		v.selection--
	case v.selection > centre:
		v.selection--
	default:
		if prev := v.list.Prev(v.items[0]); prev != nil {
			copy(v.items[1:], v.items[:len(v.items)-1])
			v.items[0] = prev
		} else if v.selection > 0 {
			v.selection--
		} else {
			return false
		}
	}
	return true
}

// MoveDown moves the selection one item towards the end of the stream and
// reports whether anything moved.
func (v *Viewport) MoveDown() bool {
	last := len(v.items) - 1
	switch {
	case len(v.items) == 0:
		return false
	case len(v.items) < ViewportSize:
		if v.selection == last {
			return false
		}
		v.selection++
	case v.selection < centre:
		v.selection++
	default:
		if next := v.list.Next(v.items[last]); next != nil {
			copy(v.items, v.items[1:])
			v.items[last] = next
		} else if v.selection < last {
			v.selection++
		} else {
			return false
		}
	}
	return true
}

// Move steps the selection by delta items, stopping early at either end.
func (v *Viewport) Move(delta int) {
	for delta < 0 && v.MoveUp() {
		delta++
	}
	for delta > 0 && v.MoveDown() {
		delta--
	}
}

// Items returns the items in the window, first to last.
func (v *Viewport) Items() []search.ResultItem {
	return v.items
}

// Selection returns the index of the selected item within Items.
func (v *Viewport) Selection() int {
	return v.selection
}

// Selected returns the selected item, or nil when the window is empty.
func (v *Viewport) Selected() search.ResultItem {
	if len(v.items) == 0 {
		return nil
	}
	return v.items[v.selection]
}
