// Package engine owns the loaded index and the query state built on top
// of it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/noelzubin/launch_search/logging"
	"github.com/noelzubin/launch_search/search"
	"github.com/noelzubin/launch_search/search/collator"
	"github.com/noelzubin/launch_search/search/crawler"
	"github.com/noelzubin/launch_search/search/filter"
	"github.com/noelzubin/launch_search/search/index_store"
	"github.com/noelzubin/launch_search/search/results"
	"github.com/noelzubin/launch_search/search/usage_store"
	"github.com/noelzubin/launch_search/utils"
	"github.com/samber/lo"
)

// ErrRebuildRunning is returned by Rebuild while another rebuild is in
// progress.
var ErrRebuildRunning = errors.New("index rebuild already running")

var log = logging.ForComponent(logging.CompEngine)

// Source tells where a snapshot came from.
type Source string

const (
	SourceDisk  Source = "disk"
	SourceCrawl Source = "crawl"
)

// Snapshot is an immutable index. Only Uses is ever changed once it has
// been swapped in, and only by the goroutine owning the Engine.
type Snapshot struct {
	Records []search.Record
	Source  Source
	Volumes []string // Crawled volume roots, empty for SourceDisk.
}

// Engine answers queries against the current snapshot.
//
// Everything except Open and Rebuild must be called from a single
// goroutine. Open and Rebuild only read the configuration, so a rebuild
// can run in the background and be installed later with Swap.
type Engine struct {
	config   *utils.Config
	usage    *usage_store.Store
	collator *collator.Collator
	matcher  *filter.Matcher
	filter   *filter.ParallelFilter

	rebuilding sync.Mutex

	snapshot  *Snapshot
	keywords  search.Keywords
	favorites *results.FavoriteList
	index     *results.IndexList
	collector *results.PriorityCollector
	viewport  *results.Viewport
}

var _ search.FileIndexer = (*Engine)(nil)

// New returns an engine over an empty index. usage may be nil, in which
// case usage counts only live in the index file.
func New(config *utils.Config, usage *usage_store.Store) *Engine {
	c := collator.New()
	m := filter.NewMatcher(c, config.Fuzzy)
	e := &Engine{
		config:   config,
		usage:    usage,
		collator: c,
		matcher:  m,
		filter:   filter.NewParallelFilter(m, config.FilterWorkers),
		keywords: search.NewKeywords(),
	}
	e.Swap(&Snapshot{Source: SourceDisk})
	return e
}

// Load reads the index file, crawling the filesystem when there is none,
// and installs the result.
func (e *Engine) Load(ctx context.Context) error {
	s, err := e.Open(ctx)
	if err != nil {
		return err
	}
	e.Swap(s)
	return nil
}

// Open reads the index file into a new snapshot. A missing file triggers
// a full Rebuild. Usage counts are brought up to date by Swap.
func (e *Engine) Open(ctx context.Context) (*Snapshot, error) {
	records, err := index_store.Load(e.config.IndexFile)
	if errors.Is(err, index_store.ErrNoIndex) {
		log.Info("index_missing", "path", e.config.IndexFile)
		return e.Rebuild(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &Snapshot{Records: records, Source: SourceDisk}, nil
}

// Rebuild crawls every volume, reapplies the usage journal, sorts the
// result and saves it as the new index file. The live state is left
// untouched; install the snapshot with Swap.
func (e *Engine) Rebuild(ctx context.Context) (*Snapshot, error) {
	if !e.rebuilding.TryLock() {
		return nil, ErrRebuildRunning
	}
	defer e.rebuilding.Unlock()

	start := time.Now()
	c := crawler.New(e.config.Volumes)
	roots, err := c.Roots()
	if err != nil {
		return nil, fmt.Errorf("list volumes: %w", err)
	}

	var mu sync.Mutex
	records := make([]search.Record, 0, 1<<16)
	err = c.Index(ctx, func(path string, depth uint32) {
		mu.Lock()
		records = append(records, search.Record{Path: path, Depth: depth})
		mu.Unlock()
	})
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}

	if err := e.applyUsage(records); err != nil {
		return nil, err
	}
	search.SortRecords(records)
	if err := index_store.Save(records, e.config.IndexFile); err != nil {
		return nil, err
	}
	if e.config.LegacyArtifacts {
		e.saveArtifacts(roots, records)
	}

	log.Info("index_rebuilt",
		"records", len(records),
		"volumes", len(roots),
		"duration", time.Since(start).String(),
	)
	return &Snapshot{Records: records, Source: SourceCrawl, Volumes: roots}, nil
}

func (e *Engine) applyUsage(records []search.Record) error {
	if e.usage == nil {
		return nil
	}
	if _, err := e.usage.Apply(records); err != nil {
		return fmt.Errorf("apply usage journal: %w", err)
	}
	return nil
}

// saveArtifacts writes one artifact per volume. Each record goes to the
// volume with the longest root that prefixes its path. Failures are
// logged and do not fail the rebuild.
func (e *Engine) saveArtifacts(roots []string, records []search.Record) {
	byLength := slices.Clone(roots)
	slices.SortFunc(byLength, func(a, b string) int { return len(b) - len(a) })

	groups := lo.GroupBy(records, func(r search.Record) string {
		root, _ := lo.Find(byLength, func(root string) bool {
			return strings.HasPrefix(r.Path, root)
		})
		return root
	})
	for _, root := range roots {
		if err := index_store.SaveVolumeArtifact(e.config.LegacyDir, root, groups[root]); err != nil {
			log.Warn("artifact_failed", "volume", root, "error", err)
		}
	}
}

// Swap installs s as the current snapshot. The usage journal is applied
// again, so uses recorded while s was being built are not lost. The
// result lists are recreated and the current query is applied to them.
func (e *Engine) Swap(s *Snapshot) {
	if err := e.applyUsage(s.Records); err != nil {
		log.Error("swap_usage_failed", "error", err)
	}
	if e.snapshot != nil && len(e.snapshot.Records) > 0 {
		removed, added := diffPaths(e.snapshot.Records, s.Records)
		log.Info("index_swapped", "source", s.Source, "records", len(s.Records), "removed", removed, "added", added)
	}
	e.snapshot = s
	e.favorites = results.NewFavoriteList(s.Records, e.matcher)
	e.index = results.NewIndexList(s.Records, e.filter, e.favorites)
	e.collector = results.NewPriorityCollector(e.favorites, e.index)
	e.viewport = results.NewViewport(e.collector)
	e.FilterStrings(e.keywords)
}

// diffPaths counts the paths that disappeared from old and appeared in
// current.
func diffPaths(old, current []search.Record) (removed, added int) {
	seen := make(map[string]struct{}, len(old))
	for i := range old {
		seen[old[i].Path] = struct{}{}
	}
	for i := range current {
		if _, ok := seen[current[i].Path]; ok {
			delete(seen, current[i].Path)
		} else {
			added++
		}
	}
	return len(seen), added
}

// Save writes the installed snapshot, usage counts included, to the
// index file.
func (e *Engine) Save() error {
	return index_store.Save(e.snapshot.Records, e.config.IndexFile)
}

// Snapshot returns the installed snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot
}

// FilterStrings applies keywords to every result list and moves the
// viewport back to the first result.
func (e *Engine) FilterStrings(keywords search.Keywords) {
	start := time.Now()
	e.keywords = keywords
	e.collector.FilterStrings(keywords)
	e.viewport.ResetItems(false)
	log.Debug("filtered",
		"query", keywords.Join(),
		"favorites", e.favorites.Len(),
		"matches", e.index.Len(),
		"duration", time.Since(start).String(),
	)
}

// Keywords returns the current query.
func (e *Engine) Keywords() search.Keywords {
	return e.keywords
}

// JoinQuery renders the current query as text.
func (e *Engine) JoinQuery() string {
	return e.keywords.Join()
}

// SetQuery filters by the text typed into the search box. Accented
// letters are folded first so they are kept as their ASCII reading
// instead of being dropped by the keyword editor.
func (e *Engine) SetQuery(text string) {
	e.FilterStrings(search.ParseKeywords(e.collator.ConvertToPlainAscii(text)))
}

// Collator returns the folding tables used for matching.
func (e *Engine) Collator() *collator.Collator {
	return e.collator
}

// ResetQuery clears the query.
func (e *Engine) ResetQuery() {
	e.FilterStrings(search.NewKeywords())
}

// Viewport returns the window over the merged result stream.
func (e *Engine) Viewport() *results.Viewport {
	return e.viewport
}

// Matches returns the number of results for the current query.
func (e *Engine) Matches() int {
	return e.favorites.Len() + e.index.Len()
}

// IncrementUses records that path was opened. With a usage journal the
// journalled count becomes the record's count.
func (e *Engine) IncrementUses(path string) {
	r := e.find(path)
	if e.usage != nil {
		uses, err := e.usage.Increment(path)
		if err != nil {
			log.Error("increment_uses_failed", "path", path, "error", err)
		} else if r != nil {
			r.Uses = uses
		}
	}
	if r == nil {
		log.Warn("uses_unknown_path", "path", path)
		return
	}
	if e.usage == nil {
		r.Uses++
	}
	e.refreshFavorites()
}

// ResetUses removes path from the favourites.
func (e *Engine) ResetUses(path string) {
	if e.usage != nil {
		if err := e.usage.Reset(path); err != nil {
			log.Error("reset_uses_failed", "path", path, "error", err)
		}
	}
	if r := e.find(path); r != nil {
		r.Uses = 0
		e.refreshFavorites()
	}
}

func (e *Engine) find(path string) *search.Record {
	records := e.snapshot.Records
	if i := slices.IndexFunc(records, func(r search.Record) bool { return r.Path == path }); i >= 0 {
		return &records[i]
	}
	return nil
}

func (e *Engine) refreshFavorites() {
	e.favorites.Refresh()
	e.FilterStrings(e.keywords)
}
