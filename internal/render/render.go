package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/learnroute/internal/catalog"
)

// Kind selects the markdown renderer.
type Kind string

const (
	KindBasic    Kind = "basic"
	KindGoldmark Kind = "goldmark"
)

// Renderer turns a content item into an HTML fragment.
type Renderer interface {
	Render(item catalog.ContentItem) (template.HTML, error)
}

// New returns the renderer for kind. An empty kind means basic.
func New(kind Kind) (Renderer, error) {
	switch kind {
	case "", KindBasic:
		return &Basic{}, nil
	case KindGoldmark:
		return NewGoldmark(), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q: must be one of basic, goldmark", kind)
	}
}

// Basic renders markdown with the line-oriented Markdown function.
type Basic struct{}

func (b *Basic) Render(item catalog.ContentItem) (template.HTML, error) {
	return dispatch(item, func(src string) (template.HTML, error) {
		return Markdown(src), nil
	})
}

// Goldmark renders markdown as GFM with syntax highlighting.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark creates a Goldmark renderer.
func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}
}

func (g *Goldmark) Render(item catalog.ContentItem) (template.HTML, error) {
	return dispatch(item, func(src string) (template.HTML, error) {
		var buf bytes.Buffer
		if err := g.md.Convert([]byte(src), &buf); err != nil {
			return "", fmt.Errorf("converting markdown: %w", err)
		}
		return template.HTML(buf.String()), nil
	})
}

// dispatch renders the non-markdown types and hands markdown to md.
func dispatch(item catalog.ContentItem, md func(string) (template.HTML, error)) (template.HTML, error) {
	switch item.Type {
	case catalog.Markdown:
		return md(item.Content)
	case catalog.HTML:
		return template.HTML(item.Content), nil
	case catalog.PDF:
		return template.HTML(fmt.Sprintf(
			`<div class="pdf-viewer"><iframe src="%s" title="%s"></iframe></div>`,
			template.HTMLEscapeString(item.Content),
			template.HTMLEscapeString(item.Name),
		)), nil
	case catalog.Image:
		return template.HTML(fmt.Sprintf(
			`<figure class="image-viewer"><img src="%s" alt="%s"></figure>`,
			template.HTMLEscapeString(item.Content),
			template.HTMLEscapeString(item.Name),
		)), nil
	case catalog.Text:
		return template.HTML("<pre>" + template.HTMLEscapeString(item.Content) + "</pre>"), nil
	default:
		return "", fmt.Errorf("unsupported content type %v", item.Type)
	}
}

// Markdown is the naive line renderer: "# ", "## ", "### " headings, "- "
// list items, blank-line breaks and "**" bold spans. Every other line is a
// paragraph.
func Markdown(src string) template.HTML {
	var b strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "# "):
			writeTag(&b, "h1", line[2:])
		case strings.HasPrefix(line, "## "):
			writeTag(&b, "h2", line[3:])
		case strings.HasPrefix(line, "### "):
			writeTag(&b, "h3", line[4:])
		case strings.HasPrefix(line, "- "):
			writeTag(&b, "li", line[2:])
		case strings.TrimSpace(line) == "":
			b.WriteString(`<div class="break"></div>` + "\n")
		case strings.Contains(line, "**"):
			b.WriteString("<p>")
			for i, part := range strings.Split(line, "**") {
				if i%2 == 1 {
					b.WriteString("<strong>" + template.HTMLEscapeString(part) + "</strong>")
				} else {
					b.WriteString(template.HTMLEscapeString(part))
				}
			}
			b.WriteString("</p>\n")
		default:
			writeTag(&b, "p", line)
		}
	}
	return template.HTML(b.String())
}

func writeTag(b *strings.Builder, tag, text string) {
	b.WriteString("<" + tag + ">" + template.HTMLEscapeString(text) + "</" + tag + ">\n")
}
