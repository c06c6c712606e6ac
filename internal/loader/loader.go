package loader

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

// ManifestName is the per-topic file listing the topic's content files.
const ManifestName = "manifest.json"

// DefaultConcurrency bounds per-file fetches within one manifest.
const DefaultConcurrency = 8

// ProgressFunc is called after each topic finishes during Prefetch.
type ProgressFunc func(done, total int, topicID string)

// Loader resolves topic ids to ordered content items, fetching each topic at
// most once per process.
type Loader struct {
	fetcher     Fetcher
	cache       *Cache
	concurrency int
	logger      *log.Logger
	group       singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds the number of in-flight file fetches per topic.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLogger routes load warnings to logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader. A nil cache gets a fresh one.
func New(fetcher Fetcher, cache *Cache, opts ...Option) *Loader {
	if cache == nil {
		cache = NewCache()
	}
	l := &Loader{
		fetcher:     fetcher,
		cache:       cache,
		concurrency: DefaultConcurrency,
		logger:      log.New(os.Stderr, "loader: ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cache returns the loader's topic cache.
func (l *Loader) Cache() *Cache { return l.cache }

// Fetcher returns the loader's fetcher.
func (l *Loader) Fetcher() Fetcher { return l.fetcher }

// LoadFiles returns the ordered files of topicID. Failures never propagate:
// a missing manifest yields an empty list and a bad entry is dropped.
//
// Concurrent callers share one load. The shared load does not inherit any
// caller's cancellation, so it always completes and is cached; a caller whose
// ctx ends first gets an empty list without disturbing the others.
func (l *Loader) LoadFiles(ctx context.Context, topicID string) []catalog.ContentItem {
	if items, ok := l.cache.Get(topicID); ok {
		return items
	}

	ch := l.group.DoChan(topicID, func() (any, error) {
		if items, ok := l.cache.Get(topicID); ok {
			return items, nil
		}
		items := l.resolve(context.WithoutCancel(ctx), topicID)
		l.cache.Put(topicID, items)
		return items, nil
	})

	select {
	case res := <-ch:
		return cloneItems(res.Val.([]catalog.ContentItem))
	case <-ctx.Done():
		return []catalog.ContentItem{}
	}
}

// resolve fetches the manifest of topicID and every file it lists.
func (l *Loader) resolve(ctx context.Context, topicID string) []catalog.ContentItem {
	if !catalog.ValidTopicID(topicID) {
		l.logger.Printf("invalid topic id %q", topicID)
		return []catalog.ContentItem{}
	}

	data, err := l.fetcher.Fetch(ctx, path.Join(topicID, ManifestName))
	if err != nil {
		l.logger.Printf("manifest not found for topic %s: %v", topicID, err)
		return []catalog.ContentItem{}
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		l.logger.Printf("invalid manifest for topic %s: %v", topicID, err)
		return []catalog.ContentItem{}
	}

	slots := make([]*catalog.ContentItem, len(names))
	sem := make(chan struct{}, l.concurrency)
	var wg sync.WaitGroup

	for i, name := range names {
		entry, err := catalog.ParseFilename(name)
		if err != nil {
			l.logger.Printf("skipping %s in topic %s: %v", name, topicID, err)
			continue
		}

		rel := path.Join(topicID, entry.File)
		if entry.Type.IsReference() {
			slots[i] = &catalog.ContentItem{
				Rank:    entry.Rank,
				Name:    entry.Name,
				Type:    entry.Type,
				File:    entry.File,
				Content: l.fetcher.URL(rel),
			}
			continue
		}

		wg.Add(1)
		go func(i int, entry catalog.FileEntry, rel string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				l.logger.Printf("dropping %s: %v", rel, ctx.Err())
				return
			}
			defer func() { <-sem }()

			body, err := l.fetcher.Fetch(ctx, rel)
			if err != nil {
				l.logger.Printf("dropping %s: %v", rel, err)
				return
			}
			slots[i] = &catalog.ContentItem{
				Rank:    entry.Rank,
				Name:    entry.Name,
				Type:    entry.Type,
				File:    entry.File,
				Content: string(body),
			}
		}(i, entry, rel)
	}
	wg.Wait()

	items := make([]catalog.ContentItem, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			items = append(items, *s)
		}
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Rank < items[b].Rank
	})
	return items
}

// Prefetch loads every topic in ids, reporting progress after each one.
// It returns the number of files resolved per topic.
func (l *Loader) Prefetch(ctx context.Context, ids []string, onProgress ProgressFunc) map[string]int {
	counts := make(map[string]int, len(ids))
	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		counts[id] = len(l.LoadFiles(ctx, id))
		if onProgress != nil {
			onProgress(i+1, len(ids), id)
		}
	}
	return counts
}
