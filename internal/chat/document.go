package chat

import (
	"strings"
	"time"
)

// TimestampLayout is the human-readable export time in the header.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Section is one heading/body pair. Rule closes the turn with a "---" line.
type Section struct {
	Heading string
	Body    string
	Rule    bool
}

// Document is an assembled export. It is rendered once and never mutated.
type Document struct {
	Title      string
	ExportedAt time.Time
	Sections   []Section
}

// Markdown renders the document.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(d.Title)
	b.WriteString("\n\n> Exported on: ")
	b.WriteString(d.ExportedAt.Format(TimestampLayout))
	b.WriteString("\n\n---\n\n")

	for _, s := range d.Sections {
		if s.Heading != "" {
			b.WriteString("## ")
			b.WriteString(s.Heading)
			b.WriteString("\n\n")
		}
		b.WriteString(s.Body)
		b.WriteString("\n\n")
		if s.Rule {
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

// Builder accumulates sections turn by turn.
type Builder struct {
	doc  Document
	open bool
}

// NewBuilder starts a document.
func NewBuilder(title string, at time.Time) *Builder {
	return &Builder{doc: Document{Title: title, ExportedAt: at}}
}

// Add appends a section to the current turn.
func (b *Builder) Add(heading, body string) {
	b.doc.Sections = append(b.doc.Sections, Section{Heading: heading, Body: body})
	b.open = true
}

// EndTurn closes the current turn with a rule. A turn without sections
// produces nothing.
func (b *Builder) EndTurn() {
	if !b.open {
		return
	}
	b.doc.Sections[len(b.doc.Sections)-1].Rule = true
	b.open = false
}

// Len returns the number of sections added so far.
func (b *Builder) Len() int {
	return len(b.doc.Sections)
}

// Document returns the assembled document.
func (b *Builder) Document() *Document {
	b.EndTurn()
	doc := b.doc
	doc.Sections = append([]Section(nil), b.doc.Sections...)
	return &doc
}
