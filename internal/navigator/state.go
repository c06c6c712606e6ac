package navigator

import "github.com/ziadkadry99/learnroute/internal/catalog"

// Theme is one of the two colour palettes.
type Theme string

const (
	ThemeBlue   Theme = "blue"
	ThemeOrange Theme = "orange"
)

// Valid reports whether t is a known palette.
func (t Theme) Valid() bool {
	return t == ThemeBlue || t == ThemeOrange
}

// Toggled returns the other palette.
func (t Theme) Toggled() Theme {
	if t == ThemeOrange {
		return ThemeBlue
	}
	return ThemeOrange
}

// View is the top-level screen: catalog browsing or reading a topic.
type View string

const (
	ViewHome   View = "home"
	ViewReader View = "reader"
)

// Session keys, one per persisted field.
const (
	KeySelectedTopic  = "selected_topic"
	KeyFileIndex      = "current_file_index"
	KeyExpandedTopics = "expanded_topics"
	KeyTheme          = "theme"
	KeyView           = "view"
)

// State is the persisted navigation state. A nil CurrentFileIndex means no
// file is selected.
type State struct {
	SelectedTopicID  string          `json:"selected_topic_id"`
	CurrentFileIndex *int            `json:"current_file_index"`
	ExpandedTopics   map[string]bool `json:"expanded_topics"`
	Theme            Theme           `json:"theme"`
	View             View            `json:"view"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.CurrentFileIndex != nil {
		i := *s.CurrentFileIndex
		out.CurrentFileIndex = &i
	}
	out.ExpandedTopics = make(map[string]bool, len(s.ExpandedTopics))
	for k, v := range s.ExpandedTopics {
		out.ExpandedTopics[k] = v
	}
	return out
}

// FileIndex returns the current file index and whether one is set.
func (s State) FileIndex() (int, bool) {
	if s.CurrentFileIndex == nil {
		return 0, false
	}
	return *s.CurrentFileIndex, true
}

// FileSummary describes a content item without its body.
type FileSummary struct {
	Index int                 `json:"index"`
	Rank  int                 `json:"rank"`
	Name  string              `json:"name"`
	Type  catalog.ContentType `json:"type"`
	File  string              `json:"file"`
}

// Snapshot is a consistent view of a navigator for display.
type Snapshot struct {
	State   State                `json:"state"`
	Files   []FileSummary        `json:"files"`
	Current *catalog.ContentItem `json:"current,omitempty"`
	HasPrev bool                 `json:"has_prev"`
	HasNext bool                 `json:"has_next"`
}

func intPtr(i int) *int { return &i }

func sameIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameExpanded(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
