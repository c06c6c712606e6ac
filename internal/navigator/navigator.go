package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ziadkadry99/learnroute/internal/catalog"
	"github.com/ziadkadry99/learnroute/internal/session"
)

var (
	// ErrUnknownTopic is returned for topic ids missing from the catalog.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrFileIndexOutOfRange is returned by SelectFile for an invalid index.
	ErrFileIndexOutOfRange = errors.New("file index out of range")
	// ErrInvalidTheme is returned by SetTheme for an unknown palette.
	ErrInvalidTheme = errors.New("invalid theme")
)

// Loader resolves a topic to its ordered files.
type Loader interface {
	LoadFiles(ctx context.Context, topicID string) []catalog.ContentItem
}

// Navigator is the per-session navigation state machine. Every transition
// writes the fields it changed through to the session store before
// returning.
type Navigator struct {
	mu           sync.Mutex
	catalog      *catalog.Catalog
	loader       Loader
	store        session.Store
	defaultTheme Theme
	state        State
	files        []catalog.ContentItem
}

// New creates a Navigator in the Home view. Call Restore to rehydrate a
// previous session.
func New(cat *catalog.Catalog, loader Loader, store session.Store, defaultTheme Theme) *Navigator {
	if !defaultTheme.Valid() {
		defaultTheme = ThemeBlue
	}
	return &Navigator{
		catalog:      cat,
		loader:       loader,
		store:        store,
		defaultTheme: defaultTheme,
		state: State{
			ExpandedTopics: map[string]bool{},
			Theme:          defaultTheme,
			View:           ViewHome,
		},
	}
}

// Catalog returns the topic catalog the navigator selects from.
func (n *Navigator) Catalog() *catalog.Catalog { return n.catalog }

// Restore rehydrates state from the store. A previously selected topic is
// loaded again and the restored index is clamped into its file range.
func (n *Navigator) Restore(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	restored := State{
		SelectedTopicID:  session.Restore(ctx, n.store, KeySelectedTopic, ""),
		CurrentFileIndex: session.Restore[*int](ctx, n.store, KeyFileIndex, nil),
		ExpandedTopics:   session.Restore(ctx, n.store, KeyExpandedTopics, map[string]bool{}),
		Theme:            session.Restore(ctx, n.store, KeyTheme, n.defaultTheme),
		View:             session.Restore(ctx, n.store, KeyView, ViewHome),
	}
	if restored.ExpandedTopics == nil {
		restored.ExpandedTopics = map[string]bool{}
	}

	next := restored.Clone()
	if !next.Theme.Valid() {
		next.Theme = n.defaultTheme
	}
	if next.View != ViewHome && next.View != ViewReader {
		next.View = ViewHome
	}

	n.files = nil
	if _, ok := n.catalog.Find(next.SelectedTopicID); !ok {
		next.SelectedTopicID = ""
		next.CurrentFileIndex = nil
		next.View = ViewHome
	} else {
		n.files = n.loader.LoadFiles(ctx, next.SelectedTopicID)
		if err := ctx.Err(); err != nil {
			return err
		}
		next.CurrentFileIndex = clampIndex(next.CurrentFileIndex, len(n.files))
	}

	n.state = restored
	return n.commit(ctx, next)
}

// SelectTopic loads topicID, selects its first file and opens the reader.
func (n *Navigator) SelectTopic(ctx context.Context, topicID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selectTopic(ctx, topicID)
}

func (n *Navigator) selectTopic(ctx context.Context, topicID string) error {
	next, files, err := n.topicState(ctx, topicID)
	if err != nil {
		return err
	}
	return n.commitWithFiles(ctx, next, files)
}

// topicState loads topicID and returns the state that selects it without
// installing either.
func (n *Navigator) topicState(ctx context.Context, topicID string) (State, []catalog.ContentItem, error) {
	if _, ok := n.catalog.Find(topicID); !ok {
		return State{}, nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topicID)
	}

	files := n.loader.LoadFiles(ctx, topicID)
	if err := ctx.Err(); err != nil {
		return State{}, nil, err
	}

	next := n.state.Clone()
	next.SelectedTopicID = topicID
	next.CurrentFileIndex = nil
	if len(files) > 0 {
		next.CurrentFileIndex = intPtr(0)
	}
	next.ExpandedTopics[topicID] = true
	next.View = ViewReader
	return next, files, nil
}

// ToggleTopicExpansion flips the sidebar expansion of the selected topic, or
// selects topicID when it is a different topic.
func (n *Navigator) ToggleTopicExpansion(ctx context.Context, topicID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if topicID != n.state.SelectedTopicID {
		return n.selectTopic(ctx, topicID)
	}

	next := n.state.Clone()
	next.ExpandedTopics[topicID] = !next.ExpandedTopics[topicID]
	return n.commit(ctx, next)
}

// OpenRank selects topicID and points at the file with the given rank,
// falling back to the first file when no file has it.
func (n *Navigator) OpenRank(ctx context.Context, topicID string, rank int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next, files, err := n.topicState(ctx, topicID)
	if err != nil {
		return err
	}
	for i, f := range files {
		if f.Rank == rank {
			next.CurrentFileIndex = intPtr(i)
			break
		}
	}
	return n.commitWithFiles(ctx, next, files)
}

// SelectFile points at files[index] of the selected topic.
func (n *Navigator) SelectFile(ctx context.Context, index int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if index < 0 || index >= len(n.files) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFileIndexOutOfRange, index, len(n.files))
	}
	next := n.state.Clone()
	next.CurrentFileIndex = intPtr(index)
	return n.commit(ctx, next)
}

// Next advances one file; it does nothing on the last file.
func (n *Navigator) Next(ctx context.Context) error {
	return n.step(ctx, 1)
}

// Prev retreats one file; it does nothing on the first file.
func (n *Navigator) Prev(ctx context.Context) error {
	return n.step(ctx, -1)
}

func (n *Navigator) step(ctx context.Context, delta int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	cur, ok := n.state.FileIndex()
	if !ok {
		return nil
	}
	target := cur + delta
	if target < 0 || target >= len(n.files) {
		return nil
	}
	next := n.state.Clone()
	next.CurrentFileIndex = intPtr(target)
	return n.commit(ctx, next)
}

// GoHome shows the catalog. The selection and loaded files are kept.
func (n *Navigator) GoHome(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := n.state.Clone()
	next.View = ViewHome
	return n.commit(ctx, next)
}

// SetTheme switches to the given palette.
func (n *Navigator) SetTheme(ctx context.Context, theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	next := n.state.Clone()
	next.Theme = theme
	return n.commit(ctx, next)
}

// ToggleTheme switches to the other palette.
func (n *Navigator) ToggleTheme(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := n.state.Clone()
	next.Theme = next.Theme.Toggled()
	return n.commit(ctx, next)
}

// State returns a copy of the current state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Clone()
}

// Files returns the files of the selected topic.
func (n *Navigator) Files() []catalog.ContentItem {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]catalog.ContentItem, len(n.files))
	copy(out, n.files)
	return out
}

// Current returns the selected file.
func (n *Navigator) Current() (catalog.ContentItem, int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current()
}

func (n *Navigator) current() (catalog.ContentItem, int, bool) {
	i, ok := n.state.FileIndex()
	if !ok || i >= len(n.files) {
		return catalog.ContentItem{}, 0, false
	}
	return n.files[i], i, true
}

// Snapshot returns state, file summaries and the current item together.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()

	snap := Snapshot{
		State: n.state.Clone(),
		Files: make([]FileSummary, len(n.files)),
	}
	for i, f := range n.files {
		snap.Files[i] = FileSummary{Index: i, Rank: f.Rank, Name: f.Name, Type: f.Type, File: f.File}
	}
	if item, i, ok := n.current(); ok {
		snap.Current = &item
		snap.HasPrev = i > 0
		snap.HasNext = i < len(n.files)-1
	}
	return snap
}

// fieldWrite is one store key changed by a transition.
type fieldWrite struct {
	key        string
	next, prev any
}

// commitWithFiles commits next and, only once it is stored, swaps in files.
func (n *Navigator) commitWithFiles(ctx context.Context, next State, files []catalog.ContentItem) error {
	if err := n.commit(ctx, next); err != nil {
		return err
	}
	n.files = files
	return nil
}

// commit writes every changed field to the store and installs next only
// when all writes succeed. On failure the keys already written are put back
// and the in-memory state is left as it was.
func (n *Navigator) commit(ctx context.Context, next State) error {
	prev := n.state

	var writes []fieldWrite
	if next.SelectedTopicID != prev.SelectedTopicID {
		writes = append(writes, fieldWrite{KeySelectedTopic, next.SelectedTopicID, prev.SelectedTopicID})
	}
	if !sameIndex(next.CurrentFileIndex, prev.CurrentFileIndex) {
		writes = append(writes, fieldWrite{KeyFileIndex, next.CurrentFileIndex, prev.CurrentFileIndex})
	}
	if !sameExpanded(next.ExpandedTopics, prev.ExpandedTopics) {
		writes = append(writes, fieldWrite{KeyExpandedTopics, next.ExpandedTopics, prev.ExpandedTopics})
	}
	if next.Theme != prev.Theme {
		writes = append(writes, fieldWrite{KeyTheme, next.Theme, prev.Theme})
	}
	if next.View != prev.View {
		writes = append(writes, fieldWrite{KeyView, next.View, prev.View})
	}

	for i, w := range writes {
		if err := session.Persist(ctx, n.store, w.key, w.next); err != nil {
			rollback := context.WithoutCancel(ctx)
			for _, done := range writes[:i] {
				session.Persist(rollback, n.store, done.key, done.prev)
			}
			return err
		}
	}
	n.state = next
	return nil
}

// clampIndex fits idx into [0, n). Absent stays absent only when there are
// no files.
func clampIndex(idx *int, n int) *int {
	if n == 0 {
		return nil
	}
	if idx == nil || *idx < 0 {
		return intPtr(0)
	}
	if *idx >= n {
		return intPtr(n - 1)
	}
	return intPtr(*idx)
}
