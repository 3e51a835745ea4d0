package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	records := []Record{
		{Path: "/b/zz", Depth: 2},
		{Path: "/deep/er/x", Depth: 3},
		{Path: "/b/a", Depth: 2},
		{Path: "/x", Depth: 1},
		{Path: "/used/a/lot", Depth: 3, Uses: 7},
	}
	SortRecords(records)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Path
	}
	assert.Equal(t, []string{"/used/a/lot", "/x", "/b/a", "/b/zz", "/deep/er/x"}, got)

	sorted := append([]Record(nil), records...)
	SortRecords(sorted)
	assert.Equal(t, records, sorted)
	assert.Zero(t, Compare(&records[0], &records[0]))
}

func TestKeywordsAddChar(t *testing.T) {
	k := NewKeywords()
	for _, c := range "Read  Me é\x01x" {
		k = k.AddChar(c)
	}
	assert.Equal(t, Keywords{"read", "me", "x"}, k)
	assert.Equal(t, "read me x", k.Join())
}

func TestKeywordsLimit(t *testing.T) {
	k := ParseKeywords(strings.Repeat("a ", MaxKeywords))
	assert.Len(t, k, MaxKeywords)
	assert.Equal(t, "a", k[MaxKeywords-1])

	k = k.AddChar('b')
	assert.Equal(t, "ab", k[MaxKeywords-1])
}

func TestKeywordsBackspace(t *testing.T) {
	k := ParseKeywords("ab ")
	assert.Equal(t, Keywords{"ab", ""}, k)

	k = k.Backspace()
	assert.Equal(t, Keywords{"ab"}, k)
	k = k.Backspace().Backspace()
	assert.Equal(t, Keywords{""}, k)
	assert.Equal(t, Keywords{""}, k.Backspace())
	assert.True(t, k.Empty())
}

func TestKeywordsDoNotAlias(t *testing.T) {
	base := make(Keywords, 1, 4)
	base[0] = "a"
	first := base.AddChar(' ')
	second := base.AddChar('b')

	assert.Equal(t, Keywords{"a", ""}, first)
	assert.Equal(t, Keywords{"ab"}, second)
	assert.Equal(t, Keywords{"a"}, base)
}
