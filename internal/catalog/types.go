package catalog

import "fmt"

// Topic is one subject area in the learning catalog. The ID doubles as the
// path segment under the content root.
type Topic struct {
	ID          string `json:"id" yaml:"id" koanf:"id"`
	Name        string `json:"name" yaml:"name" koanf:"name"`
	Description string `json:"description" yaml:"description" koanf:"description"`
}

// ContentType is the closed set of content kinds a topic file can hold.
type ContentType int

const (
	Markdown ContentType = iota + 1
	HTML
	PDF
	Image
	Text
)

var contentTypeNames = map[ContentType]string{
	Markdown: "markdown",
	HTML:     "html",
	PDF:      "pdf",
	Image:    "image",
	Text:     "text",
}

func (t ContentType) String() string {
	if name, ok := contentTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ContentType(%d)", int(t))
}

// IsReference reports whether items of this type carry a resource URL
// instead of a fetched body.
func (t ContentType) IsReference() bool {
	return t == PDF || t == Image
}

// MarshalText implements encoding.TextMarshaler.
func (t ContentType) MarshalText() ([]byte, error) {
	name, ok := contentTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown content type %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ContentType) UnmarshalText(b []byte) error {
	for k, v := range contentTypeNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown content type %q", string(b))
}

// ContentItem is one resolved file of a topic. Content holds the text body
// for markdown, html and text items and the resource URL for pdf and image
// items.
type ContentItem struct {
	Rank    int         `json:"rank"`
	Name    string      `json:"name"`
	Type    ContentType `json:"type"`
	File    string      `json:"file"`
	Content string      `json:"content"`
}
