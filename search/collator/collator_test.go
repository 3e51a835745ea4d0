package collator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToPlainAsciiIdentityOnASCII(t *testing.T) {
	c := New()

	var all []byte
	for b := byte(' '); b <= '~'; b++ {
		all = append(all, b)
	}

	for _, s := range []string{"", "readme.txt", "C:/Program Files/App/app.exe", string(all)} {
		assert.Equal(t, s, c.ConvertToPlainAscii(s))
	}
}

func TestConvertToPlainAscii(t *testing.T) {
	c := New()

	tests := map[string]string{
		"café":           "cafe",
		"RÉADME_FR.txt":  "README_FR.txt",
		"Ångström":       "Angstrom",
		"façade naïve":   "facade naive",
		"Łódź":           "Lodz",
		"straße":         "strase",
		"Øresund":        "Oresund",
		"Crème brûlée":   "Creme brulee",
		"Nguyễn":         "Nguyen",
		"日本語.txt":        "日本語.txt",
		"a\u00a0b":       "a b",
		"don\u2019t":     "don't",
		"\u2460 chapter": "1 chapter",
	}
	for in, want := range tests {
		assert.Equal(t, want, c.ConvertToPlainAscii(in), "input %q", in)
	}
}

func TestFuzzyFind(t *testing.T) {
	c := New()

	assert.True(t, c.FuzzyFind("C:/b/RÉADME_FR.txt", "readme"))
	assert.True(t, c.FuzzyFind("C:/a/readme.txt", "readme"))
	assert.True(t, c.FuzzyFind("/home/u/Café/menu.pdf", "cafe/menu"))
	assert.True(t, c.FuzzyFind("/home/u/cafe", "CAFÉ"))
	assert.True(t, c.FuzzyFind("anything", ""))
	assert.True(t, c.FuzzyFind("/srv/ДОКУМЕНТ", "документ"))

	assert.False(t, c.FuzzyFind("C:/a/readme.txt", "readmx"))
	assert.False(t, c.FuzzyFind("abc", "abcd"))
	assert.False(t, c.FuzzyFind("", "a"))
}

func TestPatternReuse(t *testing.T) {
	c := New()
	p := c.Compile("ölf")

	require.False(t, p.Empty())
	assert.True(t, p.FindIn("/tmp/golf.go"))
	assert.True(t, p.FindIn("/tmp/GÖLF"))
	assert.False(t, p.FindIn("/tmp/gol"))
	assert.True(t, c.Compile("").Empty())
}

func TestPatternIndex(t *testing.T) {
	c := New()
	for _, tc := range []struct {
		haystack, needle string
		start, end       int
	}{
		{"readme.txt", "adme", 2, 6},
		{"RÉADME.txt", "eadme", 1, 7},
		{"café-menu", "e-m", 3, 7},
		{"aaab", "aab", 1, 4},
		{"readme.txt", "", 0, 0},
		{"readme.txt", "rdm", -1, -1},
	} {
		start, end := c.Compile(tc.needle).Index(tc.haystack)
		assert.Equal(t, tc.start, start, "%q in %q", tc.needle, tc.haystack)
		assert.Equal(t, tc.end, end, "%q in %q", tc.needle, tc.haystack)
	}
}

func TestContainsCI(t *testing.T) {
	tests := []struct {
		value  string
		needle string
		want   bool
	}{
		{"C:/Users/Readme.TXT", "readme.txt", true},
		{"readme", "README", true},
		{"anything", "", true},
		{"", "", true},
		{"abc", "abcd", false},
		{"aaab", "aab", true},
		{"abababc", "ababc", true},
		{"xyz", "y", true},
		{"xyz", "q", false},
		{"tail", "ail", true},
		{"tai", "ail", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsCI(tt.value, tt.needle), "ContainsCI(%q, %q)", tt.value, tt.needle)
	}
}

func TestFoldPassthrough(t *testing.T) {
	c := New()

	assert.Equal(t, 'e', c.Fold('é'))
	assert.Equal(t, 'E', c.Fold('É'))
	assert.Equal(t, 'a', c.Fold('a'))
	assert.Equal(t, '日', c.Fold('日'))
	assert.Equal(t, rune(0x1F600), c.Fold(0x1F600))
}
