// Package index_store persists the index as a line oriented text file.
//
// Each record is one line of the form "uses depth path". Paths are written
// verbatim, so a path containing a newline does not survive a round trip.
package index_store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/noelzubin/launch_search/logging"
	"github.com/noelzubin/launch_search/search"
	"golang.org/x/time/rate"
)

// ProgressEvery is how many parsed records pass between progress reports.
const ProgressEvery = 10000

// ErrNoIndex is returned by Load when the index file does not exist.
var ErrNoIndex = fmt.Errorf("index file not found: %w", os.ErrNotExist)

var log = logging.ForComponent(logging.CompStore)

// Save writes records to path, replacing any existing file.
func Save(records []search.Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write index %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close index %s: %w", path, err)
	}
	log.Info("index_saved", "path", path, "records", len(records))
	return nil
}

func write(w io.Writer, records []search.Record) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	line := make([]byte, 0, 256)
	for i := range records {
		r := &records[i]
		if strings.IndexByte(r.Path, '\n') >= 0 {
			log.Warn("path_contains_newline", "path", r.Path)
		}
		line = strconv.AppendUint(line[:0], uint64(r.Uses), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(r.Depth), 10)
		line = append(line, ' ')
		line = append(line, r.Path...)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads the index at path. Lines that do not parse, and repeats of a
// path already read, are dropped and counted; only file level failures
// are returned. A missing file yields an error matching ErrNoIndex and
// os.ErrNotExist.
func Load(path string) ([]search.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoIndex, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	records, stats := parse(data)
	stats.log(path)
	log.Info("index_loaded", "path", path, "records", len(records))
	return records, nil
}

type parseStats struct {
	malformed  int
	duplicates int
}

func (s parseStats) log(path string) {
	if s.malformed > 0 {
		log.Warn("malformed_lines_dropped", "path", path, "count", s.malformed)
	}
	if s.duplicates > 0 {
		log.Warn("duplicate_paths_dropped", "path", path, "count", s.duplicates)
	}
}

// parse decodes index lines. The first record of a path wins.
func parse(data []byte) ([]search.Record, parseStats) {
	n := bytes.Count(data, []byte{'\n'}) + 1
	records := make([]search.Record, 0, n)
	seen := make(map[string]struct{}, n)
	progress := rate.Sometimes{Every: ProgressEvery}
	var stats parseStats

	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		if len(line) == 0 {
			continue
		}
		r, ok := parseLine(line)
		if !ok {
			stats.malformed++
			log.Debug("malformed_line", "line", string(line))
			continue
		}
		if _, dup := seen[r.Path]; dup {
			stats.duplicates++
			log.Debug("duplicate_path", "path", r.Path)
			continue
		}
		seen[r.Path] = struct{}{}
		records = append(records, r)
		progress.Do(func() {
			log.Info("load_progress", "records", len(records), "last", r.Path)
		})
	}
	return records, stats
}

func parseLine(line []byte) (search.Record, bool) {
	uses, rest, ok := nextField(line)
	if !ok {
		return search.Record{}, false
	}
	depth, path, ok := nextField(rest)
	if !ok || len(path) == 0 {
		return search.Record{}, false
	}
	return search.Record{Path: string(path), Depth: depth, Uses: uses}, true
}

// nextField parses a decimal uint32 terminated by a single space.
func nextField(b []byte) (uint32, []byte, bool) {
	i := bytes.IndexByte(b, ' ')
	if i <= 0 {
		return 0, nil, false
	}
	n, err := strconv.ParseUint(string(b[:i]), 10, 32)
	if err != nil {
		return 0, nil, false
	}
	return uint32(n), b[i+1:], true
}
