package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var r map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &r))
		records = append(records, r)
	}
	return records
}

func TestInitWritesJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Config{Dir: dir, Level: "debug"}))
	defer Shutdown()

	Logger().Info("index_loaded", "records", 42)

	records := readRecords(t, filepath.Join(dir, "launch_search.log"))
	require.Len(t, records, 1)
	assert.Equal(t, "index_loaded", records[0]["msg"])
	assert.EqualValues(t, 42, records[0]["records"])
}

func TestForComponentCreatedBeforeInit(t *testing.T) {
	Shutdown()
	log := ForComponent(CompCrawler).With("volume", "/")

	dir := t.TempDir()
	require.NoError(t, Init(Config{Dir: dir}))
	defer Shutdown()

	log.Warn("path_too_long")
	log.Debug("below the configured level")

	records := readRecords(t, filepath.Join(dir, "launch_search.log"))
	require.Len(t, records, 1)
	assert.Equal(t, "crawler", records[0]["component"])
	assert.Equal(t, "/", records[0]["volume"])
	assert.Equal(t, "path_too_long", records[0]["msg"])
}

func TestInitWithoutDirDiscards(t *testing.T) {
	require.NoError(t, Init(Config{}))
	defer Shutdown()

	assert.NotPanics(t, func() {
		ForComponent(CompUI).Info("goes nowhere")
	})
}
