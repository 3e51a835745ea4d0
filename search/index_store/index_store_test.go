package index_store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/noelzubin/launch_search/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []search.Record{
	{Path: "C:/Users/me/readme.txt", Depth: 3, Uses: 0},
	{Path: "C:/Program Files/App/app.exe", Depth: 3, Uses: 12},
	{Path: "/home/me/My Notes/café.md", Depth: 4, Uses: 1},
	{Path: "/home/me/ends with space ", Depth: 3, Uses: 0},
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.txt")
	require.NoError(t, Save(sample, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestSaveWritesLineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.txt")
	require.NoError(t, Save(sample[:2], path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0 3 C:/Users/me/readme.txt\n12 3 C:/Program Files/App/app.exe\n", string(data))
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.txt")
	require.NoError(t, Save(sample, path))
	require.NoError(t, Save(sample[:1], path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample[:1], got)
}

func TestLoadDropsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.txt")
	content := "1 2 /a/b\n" +
		"\n" +
		"x 2 /bad/uses\n" +
		"3 /missing/depth\n" +
		"4 5 \n" +
		"-1 2 /negative\n" +
		"99999999999 1 /overflow\n" +
		"0 1 /last/without/newline"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []search.Record{
		{Path: "/a/b", Depth: 2, Uses: 1},
		{Path: "/last/without/newline", Depth: 1, Uses: 0},
	}, got)
}

func TestLoadDropsRepeatedPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.txt")
	content := "2 1 /a\n" +
		"0 1 /b\n" +
		"5 1 /a\n" +
		"0 1 /b\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []search.Record{
		{Path: "/a", Depth: 1, Uses: 2},
		{Path: "/b", Depth: 1},
	}, got)

	records, stats := parse([]byte(content + "junk\n"))
	assert.Len(t, records, 2)
	assert.Equal(t, parseStats{malformed: 1, duplicates: 2}, stats)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoIndex))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewlineInPathIsNotRoundTripSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.txt")
	require.NoError(t, Save([]search.Record{{Path: "/odd\nname", Depth: 1}}, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []search.Record{{Path: "/odd", Depth: 1}}, got)
}

func TestLoadManyRecords(t *testing.T) {
	records := make([]search.Record, 3*ProgressEvery)
	for i := range records {
		records[i] = search.Record{Path: filepath.ToSlash(filepath.Join("/data", string(rune('a'+i%26)), "f")), Depth: 3, Uses: uint32(i % 3)}
	}
	path := filepath.Join(t.TempDir(), "index.txt")
	require.NoError(t, Save(records, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestVolumeKey(t *testing.T) {
	for volume, key := range map[string]string{
		"C:/":         "C",
		"D:":          "D",
		"/":           "root",
		"/home":       "home",
		"/media/usb/": "media_usb",
	} {
		assert.Equal(t, key, VolumeKey(volume), volume)
	}
}

func TestVolumeArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveVolumeArtifact(dir, "/home", sample))
	assert.FileExists(t, filepath.Join(dir, "home.index"))

	got, err := LoadVolumeArtifact(dir, "/home/")
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	_, err = LoadVolumeArtifact(dir, "C:/")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
