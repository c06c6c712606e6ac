package navigator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/ziadkadry99/learnroute/internal/catalog"
	"github.com/ziadkadry99/learnroute/internal/session"
)

// fakeLoader returns n generated files per topic and counts loads.
type fakeLoader struct {
	mu     sync.Mutex
	counts map[string]int
	calls  map[string]int
}

func newFakeLoader(counts map[string]int) *fakeLoader {
	return &fakeLoader{counts: counts, calls: make(map[string]int)}
}

func (f *fakeLoader) LoadFiles(_ context.Context, topicID string) []catalog.ContentItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[topicID]++
	items := make([]catalog.ContentItem, f.counts[topicID])
	for i := range items {
		rank := (i + 1) * 10
		items[i] = catalog.ContentItem{
			Rank:    rank,
			Name:    fmt.Sprintf("file %d", rank),
			Type:    catalog.Markdown,
			File:    fmt.Sprintf("%d_file.md", rank),
			Content: fmt.Sprintf("# %s %d", topicID, rank),
		}
	}
	return items
}

func (f *fakeLoader) callCount(topicID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[topicID]
}

var testCatalog = catalog.New([]catalog.Topic{
	{ID: "a", Name: "Topic A"},
	{ID: "b", Name: "Topic B"},
	{ID: "empty", Name: "Empty"},
	{ID: "05_triggers", Name: "Triggers"},
})

func setup(t *testing.T) (*Navigator, *fakeLoader, *session.MemoryStore) {
	t.Helper()
	loader := newFakeLoader(map[string]int{"a": 3, "b": 5, "empty": 0, "05_triggers": 5})
	store := session.NewMemoryStore()
	return New(testCatalog, loader, store, ThemeBlue), loader, store
}

func mustIndex(t *testing.T, n *Navigator) int {
	t.Helper()
	i, ok := n.State().FileIndex()
	if !ok {
		t.Fatal("expected a file index")
	}
	return i
}

func TestNewStartsHome(t *testing.T) {
	n, _, _ := setup(t)
	st := n.State()
	if st.View != ViewHome || st.SelectedTopicID != "" || st.CurrentFileIndex != nil {
		t.Errorf("initial state = %+v", st)
	}
	if st.Theme != ThemeBlue {
		t.Errorf("theme = %q, want blue", st.Theme)
	}
}

func TestSelectTopic(t *testing.T) {
	n, loader, store := setup(t)
	ctx := context.Background()

	if err := n.SelectTopic(ctx, "a"); err != nil {
		t.Fatalf("SelectTopic: %v", err)
	}
	st := n.State()
	if st.SelectedTopicID != "a" || st.View != ViewReader || !st.ExpandedTopics["a"] {
		t.Errorf("state = %+v", st)
	}
	if mustIndex(t, n) != 0 {
		t.Errorf("index = %d, want 0", mustIndex(t, n))
	}
	if loader.callCount("a") != 1 {
		t.Errorf("loader calls = %d", loader.callCount("a"))
	}

	if got := session.Restore(ctx, store, KeySelectedTopic, ""); got != "a" {
		t.Errorf("persisted topic = %q", got)
	}
	if got := session.Restore(ctx, store, KeyView, ViewHome); got != ViewReader {
		t.Errorf("persisted view = %q", got)
	}
}

func TestSelectUnknownTopic(t *testing.T) {
	n, _, store := setup(t)
	err := n.SelectTopic(context.Background(), "nope")
	if !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("err = %v, want ErrUnknownTopic", err)
	}
	if store.Len() != 0 {
		t.Error("failed transition must not persist anything")
	}
}

func TestNavigationClamping(t *testing.T) {
	n, _, _ := setup(t)
	ctx := context.Background()
	n.SelectTopic(ctx, "a")

	if err := n.Prev(ctx); err != nil {
		t.Fatalf("Prev: %v", err)
	}
	if got := mustIndex(t, n); got != 0 {
		t.Errorf("prev at 0: index = %d, want 0", got)
	}

	n.Next(ctx)
	n.Next(ctx)
	if got := mustIndex(t, n); got != 2 {
		t.Fatalf("index = %d, want 2", got)
	}
	if err := n.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := mustIndex(t, n); got != 2 {
		t.Errorf("next at last: index = %d, want 2", got)
	}

	n.Prev(ctx)
	if got := mustIndex(t, n); got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
}

func TestTopicSwitchResetsIndex(t *testing.T) {
	n, _, store := setup(t)
	ctx := context.Background()

	n.SelectTopic(ctx, "a")
	n.SelectFile(ctx, 2)
	if err := n.SelectTopic(ctx, "b"); err != nil {
		t.Fatalf("SelectTopic: %v", err)
	}
	if got := mustIndex(t, n); got != 0 {
		t.Errorf("index = %d, want 0", got)
	}
	if len(n.Files()) != 5 {
		t.Errorf("files = %d, want 5", len(n.Files()))
	}
	if got := session.Restore[*int](ctx, store, KeyFileIndex, nil); got == nil || *got != 0 {
		t.Errorf("persisted index = %v", got)
	}
}

func TestEmptyTopicHasNoIndex(t *testing.T) {
	n, _, store := setup(t)
	ctx := context.Background()

	n.SelectTopic(ctx, "a")
	if err := n.SelectTopic(ctx, "empty"); err != nil {
		t.Fatalf("SelectTopic: %v", err)
	}
	st := n.State()
	if st.CurrentFileIndex != nil {
		t.Errorf("index = %d, want absent", *st.CurrentFileIndex)
	}
	if _, _, ok := n.Current(); ok {
		t.Error("Current should report no item")
	}
	raw, ok, _ := store.Get(ctx, KeyFileIndex)
	if !ok || raw != "null" {
		t.Errorf("persisted index = %q, %v; want null", raw, ok)
	}

	if err := n.Next(ctx); err != nil {
		t.Errorf("Next on empty topic: %v", err)
	}
	if err := n.Prev(ctx); err != nil {
		t.Errorf("Prev on empty topic: %v", err)
	}
	if n.State().CurrentFileIndex != nil {
		t.Error("index should stay absent")
	}
}

func TestSelectFile(t *testing.T) {
	n, _, _ := setup(t)
	ctx := context.Background()
	n.SelectTopic(ctx, "b")

	if err := n.SelectFile(ctx, 4); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	if got := mustIndex(t, n); got != 4 {
		t.Errorf("index = %d, want 4", got)
	}

	for _, bad := range []int{-1, 5, 100} {
		err := n.SelectFile(ctx, bad)
		if !errors.Is(err, ErrFileIndexOutOfRange) {
			t.Errorf("SelectFile(%d) err = %v", bad, err)
		}
	}
	if got := mustIndex(t, n); got != 4 {
		t.Errorf("index changed after bad select: %d", got)
	}
}

func TestToggleTopicExpansion(t *testing.T) {
	n, loader, _ := setup(t)
	ctx := context.Background()

	if err := n.ToggleTopicExpansion(ctx, "a"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if st := n.State(); st.SelectedTopicID != "a" || !st.ExpandedTopics["a"] {
		t.Fatalf("toggle of unselected topic should select it: %+v", st)
	}

	n.Next(ctx)
	if err := n.ToggleTopicExpansion(ctx, "a"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	st := n.State()
	if st.ExpandedTopics["a"] {
		t.Error("expected a to collapse")
	}
	if got := mustIndex(t, n); got != 1 {
		t.Errorf("collapse should keep index, got %d", got)
	}
	if loader.callCount("a") != 1 {
		t.Errorf("collapse reloaded the topic: %d calls", loader.callCount("a"))
	}

	n.ToggleTopicExpansion(ctx, "a")
	if !n.State().ExpandedTopics["a"] {
		t.Error("expected a to expand again")
	}
}

func TestGoHomeKeepsSelection(t *testing.T) {
	n, loader, _ := setup(t)
	ctx := context.Background()

	n.SelectTopic(ctx, "b")
	n.SelectFile(ctx, 3)
	if err := n.GoHome(ctx); err != nil {
		t.Fatalf("GoHome: %v", err)
	}
	st := n.State()
	if st.View != ViewHome || st.SelectedTopicID != "b" || mustIndex(t, n) != 3 {
		t.Errorf("state = %+v", st)
	}
	if len(n.Files()) != 5 {
		t.Error("files should be kept")
	}
	if loader.callCount("b") != 1 {
		t.Error("GoHome should not load")
	}
}

func TestThemes(t *testing.T) {
	n, _, store := setup(t)
	ctx := context.Background()

	if err := n.SetTheme(ctx, ThemeOrange); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if n.State().Theme != ThemeOrange {
		t.Error("theme not set")
	}
	if err := n.ToggleTheme(ctx); err != nil {
		t.Fatalf("ToggleTheme: %v", err)
	}
	if n.State().Theme != ThemeBlue {
		t.Error("toggle should return to blue")
	}
	if got := session.Restore(ctx, store, KeyTheme, Theme("")); got != ThemeBlue {
		t.Errorf("persisted theme = %q", got)
	}
	if err := n.SetTheme(ctx, "purple"); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("err = %v, want ErrInvalidTheme", err)
	}
}

func TestOpenRank(t *testing.T) {
	n, _, _ := setup(t)
	ctx := context.Background()

	if err := n.OpenRank(ctx, "b", 40); err != nil {
		t.Fatalf("OpenRank: %v", err)
	}
	if got := mustIndex(t, n); got != 3 {
		t.Errorf("index = %d, want 3", got)
	}

	if err := n.OpenRank(ctx, "a", 999); err != nil {
		t.Fatalf("OpenRank: %v", err)
	}
	if got := mustIndex(t, n); got != 0 {
		t.Errorf("missing rank should fall back to 0, got %d", got)
	}

	if err := n.OpenRank(ctx, "zzz", 1); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("err = %v, want ErrUnknownTopic", err)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	loader := newFakeLoader(map[string]int{"05_triggers": 5})
	store := session.NewMemoryStore()

	first := New(testCatalog, loader, store, ThemeBlue)
	first.SelectTopic(ctx, "05_triggers")
	first.SelectFile(ctx, 3)
	first.SetTheme(ctx, ThemeOrange)
	want := first.State()

	second := New(testCatalog, loader, store, ThemeBlue)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got := second.State()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("restored = %+v, want %+v", got, want)
	}
	if loader.callCount("05_triggers") != 2 {
		t.Errorf("restore should reload the selected topic, calls = %d", loader.callCount("05_triggers"))
	}
	if item, _, ok := second.Current(); !ok || item.Rank != 40 {
		t.Errorf("current = %+v, %v", item, ok)
	}
}

func TestRestoreDefaults(t *testing.T) {
	n, loader, store := setup(t)
	if err := n.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	st := n.State()
	if st.View != ViewHome || st.SelectedTopicID != "" || st.CurrentFileIndex != nil || st.Theme != ThemeBlue {
		t.Errorf("state = %+v", st)
	}
	if len(st.ExpandedTopics) != 0 {
		t.Errorf("expanded = %v", st.ExpandedTopics)
	}
	if store.Len() != 0 {
		t.Error("restoring defaults should not write")
	}
	if len(loader.calls) != 0 {
		t.Error("nothing selected, nothing loaded")
	}
}

func TestRestoreNormalizes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		seed      map[string]any
		wantTopic string
		wantIndex *int
		wantView  View
		wantTheme Theme
	}{
		{
			name:      "index clamped to last file",
			seed:      map[string]any{KeySelectedTopic: "a", KeyFileIndex: 9, KeyView: ViewReader},
			wantTopic: "a",
			wantIndex: intPtr(2),
			wantView:  ViewReader,
			wantTheme: ThemeBlue,
		},
		{
			name:      "topic now empty",
			seed:      map[string]any{KeySelectedTopic: "empty", KeyFileIndex: 1, KeyView: ViewReader},
			wantTopic: "empty",
			wantIndex: nil,
			wantView:  ViewReader,
			wantTheme: ThemeBlue,
		},
		{
			name:      "unknown topic dropped",
			seed:      map[string]any{KeySelectedTopic: "gone", KeyFileIndex: 1, KeyView: ViewReader},
			wantTopic: "",
			wantIndex: nil,
			wantView:  ViewHome,
			wantTheme: ThemeBlue,
		},
		{
			name:      "invalid theme and view",
			seed:      map[string]any{KeyTheme: "neon", KeyView: "gallery"},
			wantView:  ViewHome,
			wantTheme: ThemeBlue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _, store := setup(t)
			for k, v := range tt.seed {
				if err := session.Persist(ctx, store, k, v); err != nil {
					t.Fatal(err)
				}
			}
			if err := n.Restore(ctx); err != nil {
				t.Fatalf("Restore: %v", err)
			}
			st := n.State()
			if st.SelectedTopicID != tt.wantTopic {
				t.Errorf("topic = %q, want %q", st.SelectedTopicID, tt.wantTopic)
			}
			if !sameIndex(st.CurrentFileIndex, tt.wantIndex) {
				t.Errorf("index = %v, want %v", st.CurrentFileIndex, tt.wantIndex)
			}
			if st.View != tt.wantView || st.Theme != tt.wantTheme {
				t.Errorf("view/theme = %q/%q", st.View, st.Theme)
			}

			persisted := session.Restore[*int](ctx, store, KeyFileIndex, nil)
			if !sameIndex(persisted, tt.wantIndex) {
				t.Errorf("persisted index = %v, want %v", persisted, tt.wantIndex)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	n, _, _ := setup(t)
	ctx := context.Background()

	snap := n.Snapshot()
	if snap.Current != nil || len(snap.Files) != 0 || snap.HasNext || snap.HasPrev {
		t.Errorf("home snapshot = %+v", snap)
	}

	n.SelectTopic(ctx, "a")
	n.Next(ctx)
	snap = n.Snapshot()
	if len(snap.Files) != 3 || snap.Files[1].Index != 1 || snap.Files[1].Rank != 20 {
		t.Errorf("files = %+v", snap.Files)
	}
	if snap.Current == nil || snap.Current.Rank != 20 {
		t.Errorf("current = %+v", snap.Current)
	}
	if !snap.HasPrev || !snap.HasNext {
		t.Errorf("has prev/next = %v/%v", snap.HasPrev, snap.HasNext)
	}

	snap.State.ExpandedTopics["b"] = true
	if n.State().ExpandedTopics["b"] {
		t.Error("snapshot must not alias navigator state")
	}
}

// failingStore rejects every write.
type failingStore struct{ session.MemoryStore }

func (f *failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestPersistFailureIsReturned(t *testing.T) {
	loader := newFakeLoader(map[string]int{"a": 1})
	n := New(testCatalog, loader, &failingStore{}, ThemeBlue)
	ctx := context.Background()

	if err := n.SelectTopic(ctx, "a"); err == nil {
		t.Fatal("expected persistence error")
	}
	if err := n.SetTheme(ctx, ThemeOrange); err == nil {
		t.Fatal("expected persistence error")
	}

	st := n.State()
	if st.Theme != ThemeBlue || st.SelectedTopicID != "" || st.View != ViewHome {
		t.Errorf("state moved despite failed write: %+v", st)
	}
	if len(n.Snapshot().Files) != 0 {
		t.Error("files should not be swapped in on a failed select")
	}
}

// flakyStore fails writes to one key and stores the rest.
type flakyStore struct {
	*session.MemoryStore
	failKey string
}

func (f *flakyStore) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestPartialWriteIsRolledBack(t *testing.T) {
	loader := newFakeLoader(map[string]int{"a": 3})
	store := &flakyStore{MemoryStore: session.NewMemoryStore(), failKey: KeyView}
	ctx := context.Background()

	n := New(testCatalog, loader, store, ThemeBlue)
	if err := n.SelectTopic(ctx, "a"); err == nil {
		t.Fatal("expected persistence error")
	}

	reloaded := New(testCatalog, loader, store, ThemeBlue)
	if err := reloaded.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got, want := reloaded.State(), n.State()
	if got.SelectedTopicID != want.SelectedTopicID || got.View != want.View {
		t.Errorf("reloaded %+v, in memory %+v", got, want)
	}
	if _, ok := got.FileIndex(); ok {
		t.Error("file index should have been rolled back")
	}
}

func TestSelectTopicWithCancelledContext(t *testing.T) {
	n, _, store := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.SelectTopic(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n.State().SelectedTopicID != "" {
		t.Error("cancelled select should not commit")
	}
	if store.Len() != 0 {
		t.Errorf("store has %d keys, want 0", store.Len())
	}
}
