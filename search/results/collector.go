package results

import "github.com/noelzubin/launch_search/search"

// PriorityCollector chains result lists into one stream. All items of an
// earlier list come before any item of a later one.
type PriorityCollector struct {
	lists []search.ResultList
}

type collected struct {
	search.ResultItem
	list  int
	owner *PriorityCollector
}

// NewPriorityCollector returns a collector over lists in priority order.
func NewPriorityCollector(lists ...search.ResultList) *PriorityCollector {
	return &PriorityCollector{lists: lists}
}

// AddList appends a list with the lowest priority so far.
func (c *PriorityCollector) AddList(l search.ResultList) {
	c.lists = append(c.lists, l)
}

func (c *PriorityCollector) FilterStrings(keywords search.Keywords) {
	for _, l := range c.lists {
		l.FilterStrings(keywords)
	}
}

func (c *PriorityCollector) unwrap(it search.ResultItem) *collected {
	ci, ok := it.(*collected)
	if !ok || ci.owner != c {
		panic("results: cursor does not belong to this collector")
	}
	return ci
}

func (c *PriorityCollector) Next(after search.ResultItem) search.ResultItem {
	start := 0
	var inner search.ResultItem
	if after != nil {
		ci := c.unwrap(after)
		start, inner = ci.list, ci.ResultItem
	}
	for i := start; i < len(c.lists); i++ {
		if it := c.lists[i].Next(inner); it != nil {
			return &collected{ResultItem: it, list: i, owner: c}
		}
		inner = nil
	}
	return nil
}

func (c *PriorityCollector) Prev(before search.ResultItem) search.ResultItem {
	start := len(c.lists) - 1
	var inner search.ResultItem
	if before != nil {
		ci := c.unwrap(before)
		start, inner = ci.list, ci.ResultItem
	}
	for i := start; i >= 0; i-- {
		if it := c.lists[i].Prev(inner); it != nil {
			return &collected{ResultItem: it, list: i, owner: c}
		}
		inner = nil
	}
	return nil
}
