package catalog

// Presentation holds view-only attributes for a topic.
type Presentation struct {
	Icon   string `json:"icon"`
	Accent string `json:"accent"`
}

// presentations maps known topic ids to their icon and accent.
var presentations = map[string]Presentation{
	"javascript": {Icon: "code", Accent: "#f7df1e"},
	"ai":         {Icon: "code", Accent: "#8b5cf6"},
	"react":      {Icon: "zap", Accent: "#61dafb"},
	"lwc":        {Icon: "book-open", Accent: "#0176d3"},
	"nodejs":     {Icon: "database", Accent: "#3c873a"},
}

// fallbackPresentations is cycled by position for ids without an entry.
var fallbackPresentations = []Presentation{
	{Icon: "book-open", Accent: "#2563eb"},
	{Icon: "code", Accent: "#9333ea"},
	{Icon: "zap", Accent: "#db2777"},
	{Icon: "database", Accent: "#ea580c"},
}

// PresentationFor resolves the presentation of the topic at the given
// catalog position.
func PresentationFor(id string, position int) Presentation {
	if p, ok := presentations[id]; ok {
		return p
	}
	if position < 0 {
		position = 0
	}
	return fallbackPresentations[position%len(fallbackPresentations)]
}
