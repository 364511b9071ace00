package editor

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownImporter converts markdown into the HTML the API stores.
// The CLI has no contenteditable surface, so note bodies are authored
// as markdown and imported through this.
type MarkdownImporter struct {
	md goldmark.Markdown
}

// NewMarkdownImporter builds an importer with GFM extensions and
// syntax highlighting in the given chroma style.
func NewMarkdownImporter(style string) *MarkdownImporter {
	if style == "" {
		style = "github"
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &MarkdownImporter{md: md}
}

func (m *MarkdownImporter) Convert(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Import converts markdown and appends the result to the document as
// a single block.
func (m *MarkdownImporter) Import(doc *Document, source []byte) error {
	if !doc.Ready() {
		return ErrNotReady
	}
	markup, err := m.Convert(source)
	if err != nil {
		return err
	}
	doc.blocks = append(doc.blocks, markup)
	return nil
}
