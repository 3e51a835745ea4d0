// Package crawler enumerates every entry of the mounted local volumes.
package crawler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/noelzubin/launch_search/logging"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// MaxPathLength is the longest path the crawler will build, enough for
// extended-length Windows paths.
const MaxPathLength = 32767

// ProgressEvery is how many entries pass between progress reports.
const ProgressEvery = 10000

var log = logging.ForComponent(logging.CompCrawler)

// Sink receives every discovered entry. It is called from one goroutine
// per volume and must be safe for concurrent use.
type Sink func(path string, depth uint32)

// Crawler walks volumes depth first, listing each directory with a single
// bulk read.
type Crawler struct {
	volumes  []string
	maxPath  int
	count    atomic.Int64
	progress rate.Sometimes
}

// New returns a crawler over volumes, or over every local mount when
// volumes is empty.
func New(volumes []string) *Crawler {
	return &Crawler{
		volumes:  volumes,
		maxPath:  MaxPathLength,
		progress: rate.Sometimes{Every: ProgressEvery},
	}
}

// Count returns the number of entries emitted so far.
func (c *Crawler) Count() int64 {
	return c.count.Load()
}

// Roots returns the normalised volume roots that Index walks.
func (c *Crawler) Roots() ([]string, error) {
	if len(c.volumes) > 0 {
		return lo.Uniq(lo.Map(c.volumes, func(v string, _ int) string {
			return NormalizeRoot(v)
		})), nil
	}
	mounts, err := Mounts()
	if err != nil {
		return nil, err
	}
	local := lo.Filter(mounts, func(m Mount, _ int) bool { return m.Local })
	return lo.Uniq(lo.Map(local, func(m Mount, _ int) string {
		return NormalizeRoot(m.Root)
	})), nil
}

// Index walks every volume concurrently, one goroutine each, and reports
// each entry to sink. It returns early with ctx.Err() once ctx is done.
func (c *Crawler) Index(ctx context.Context, sink Sink) error {
	roots, err := c.Roots()
	if err != nil {
		return err
	}

	// Other mount points are listed but not entered; their own worker
	// covers them.
	stops := make(map[string]struct{})
	if mounts, err := Mounts(); err == nil {
		for _, m := range mounts {
			stops[trimRoot(NormalizeRoot(m.Root))] = struct{}{}
		}
	} else {
		log.Warn("mount_list_failed", "error", err)
	}
	for _, r := range roots {
		stops[trimRoot(r)] = struct{}{}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		g.Go(func() error {
			log.Info("volume_started", "volume", root)
			if err := c.crawlVolume(ctx, root, stops, sink); err != nil {
				return err
			}
			log.Info("volume_finished", "volume", root, "entries", c.Count())
			return nil
		})
	}
	return g.Wait()
}

func (c *Crawler) crawlVolume(ctx context.Context, root string, stops map[string]struct{}, sink Sink) error {
	w := &walker{
		ctx:     ctx,
		crawler: c,
		sink:    sink,
		stops:   stops,
		buf:     make([]byte, 0, c.maxPath+1),
	}
	w.buf = append(w.buf, root...)
	return w.walk(0)
}

type walker struct {
	ctx     context.Context
	crawler *Crawler
	sink    Sink
	stops   map[string]struct{}

	// buf holds the current directory path. Each level appends one
	// segment on descent and truncates it again on return.
	buf []byte
}

func (w *walker) walk(depth uint32) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	dir := string(w.buf)
	entries, err := readDir(dir)
	if err != nil {
		log.Debug("dir_skipped", "path", dir, "error", err)
		if len(entries) == 0 {
			return nil
		}
	}

	base := len(w.buf)
	sep := 0
	if base > 0 && w.buf[base-1] != '/' {
		sep = 1
	}

	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}
		if base+sep+len(name) > w.crawler.maxPath {
			log.Warn("path_too_long", "parent", dir, "name", name)
			continue
		}

		if sep == 1 {
			w.buf = append(w.buf, '/')
		}
		w.buf = append(w.buf, name...)
		path := string(w.buf)

		w.sink(path, depth+1)
		w.crawler.reportProgress(path)

		if e.IsDir() {
			if _, stop := w.stops[path]; !stop {
				if err := w.walk(depth + 1); err != nil {
					return err
				}
			}
		}
		w.buf = w.buf[:base]
	}
	return nil
}

// readDir lists a directory with one bulk call. On error the entries read
// before the failure are still returned.
func readDir(dir string) ([]os.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

func (c *Crawler) reportProgress(path string) {
	n := c.count.Add(1)
	c.progress.Do(func() {
		log.Info("crawl_progress", "entries", n, "last", path)
	})
}

// NormalizeRoot converts a volume root to forward slashes with a trailing
// separator, e.g. `C:\` and `C:` become "C:/".
func NormalizeRoot(root string) string {
	root = filepath.ToSlash(root)
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root
}

// trimRoot drops the trailing separator so roots compare equal to the
// directory paths built during the walk. "/" stays as it is.
func trimRoot(root string) string {
	if len(root) > 1 {
		return strings.TrimSuffix(root, "/")
	}
	return root
}
