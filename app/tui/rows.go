package main

import (
	"path"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/noelzubin/launch_search/search"
	"github.com/noelzubin/launch_search/search/collator"
	"github.com/samber/lo"
)

var matchStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

var spaces = regexp.MustCompile(`\t+|\s{2,}`)

// Row implements list.Item for one visible result.
type Row struct {
	path  string
	title string
	desc  string
}

func (r Row) Title() string       { return r.title }
func (r Row) Description() string { return r.desc }
func (r Row) FilterValue() string { return "" }

// formatPath makes a path safe to print: escape sequences are removed,
// newlines shown as ↵ and runs of whitespace collapsed.
func formatPath(p string) string {
	s := stripansi.Strip(p)
	s = strings.ReplaceAll(s, "\n", " ↵ ")
	return spaces.ReplaceAllString(s, " ")
}

// matchMask flags the bytes of name covered by the span each keyword
// matches, found the same way the matcher finds it. It returns nil when no
// keyword matches inside name.
func matchMask(c *collator.Collator, name string, keywords search.Keywords) []bool {
	var mask []bool
	for _, k := range keywords {
		start, end := c.Compile(k).Index(name)
		if start < 0 || start == end {
			continue
		}
		if mask == nil {
			mask = make([]bool, len(name))
		}
		for i := start; i < end; i++ {
			mask[i] = true
		}
	}
	return mask
}

// highlight styles the matched spans of name.
func highlight(c *collator.Collator, name string, keywords search.Keywords) string {
	mask := matchMask(c, name, keywords)
	if mask == nil {
		return name
	}

	var b strings.Builder
	for i, r := range name {
		if mask[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncateLeft keeps the end of s, which is the informative part of a
// path, within width columns.
func truncateLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	w := 1 // the ellipsis
	i := len(runes)
	for i > 0 && w+runewidth.RuneWidth(runes[i-1]) <= width {
		i--
		w += runewidth.RuneWidth(runes[i])
	}
	return "…" + string(runes[i:])
}

// makeRows renders the viewport items for the list widget.
func makeRows(c *collator.Collator, items []search.ResultItem, keywords search.Keywords, width int) []Row {
	return lo.Map(items, func(it search.ResultItem, _ int) Row {
		p := formatPath(it.GetPath())
		dir, name := path.Split(strings.TrimSuffix(p, "/"))
		if name == "" {
			name = p
		}
		return Row{
			path:  it.GetPath(),
			title: highlight(c, name, keywords),
			desc:  truncateLeft(dir, width-4),
		}
	})
}
