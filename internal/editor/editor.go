// Package editor models the rich-text editor as a capability surface
// with an explicit not-ready state, instead of the null-checked ad hoc
// commands the original web editor used. The Document implementation
// builds the HTML-like markup the notes API stores.
package editor

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrNotReady is returned by every command invoked before the editor
// is ready; commands are never silently dropped.
var ErrNotReady = errors.New("editor is not ready")

// Editor is what the note form needs from a rich-text editor.
type Editor interface {
	Ready() bool
	SetContent(markup string) error
	Content() (string, error)
	ApplyBold(text string) error
	ApplyItalic(text string) error
	ApplyHeading(level int, text string) error
	AppendParagraph(text string) error
	InsertImage(src, alt string) error
	InsertLink(href, text string) error
	BulletList(items []string) error
}

// Document is an Editor that accumulates HTML blocks in memory. The
// zero value is not ready; use NewDocument.
type Document struct {
	ready  bool
	blocks []string
}

func NewDocument() *Document {
	return &Document{ready: true}
}

func (d *Document) Ready() bool { return d.ready }

// SetContent replaces the whole document with existing markup, the
// edit-note path where content comes back from the server.
func (d *Document) SetContent(markup string) error {
	if !d.ready {
		return ErrNotReady
	}
	if markup == "" {
		d.blocks = nil
		return nil
	}
	d.blocks = []string{markup}
	return nil
}

func (d *Document) Content() (string, error) {
	if !d.ready {
		return "", ErrNotReady
	}
	return strings.Join(d.blocks, "\n"), nil
}

func (d *Document) ApplyBold(text string) error {
	return d.append("<p><strong>%s</strong></p>", html.EscapeString(text))
}

func (d *Document) ApplyItalic(text string) error {
	return d.append("<p><em>%s</em></p>", html.EscapeString(text))
}

func (d *Document) ApplyHeading(level int, text string) error {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return d.append("<h%d>%s</h%d>", level, html.EscapeString(text), level)
}

func (d *Document) AppendParagraph(text string) error {
	return d.append("<p>%s</p>", html.EscapeString(text))
}

func (d *Document) InsertImage(src, alt string) error {
	return d.append(`<img src=%q alt=%q>`, src, alt)
}

func (d *Document) InsertLink(href, text string) error {
	return d.append(`<p><a href=%q>%s</a></p>`, href, html.EscapeString(text))
}

func (d *Document) BulletList(items []string) error {
	if !d.ready {
		return ErrNotReady
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(item))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	d.blocks = append(d.blocks, b.String())
	return nil
}

func (d *Document) append(format string, args ...any) error {
	if !d.ready {
		return ErrNotReady
	}
	d.blocks = append(d.blocks, fmt.Sprintf(format, args...))
	return nil
}
