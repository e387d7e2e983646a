package buffer

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/zjrosen/cursorword/internal/pattern"
	"github.com/zjrosen/cursorword/internal/span"
)

// DefaultSeparators is the separator set editors ship with by default.
const DefaultSeparators = "./\\()\"'-:,.;<>~!@#$%^&*|+=[]{}`~?"

type runeClass int

const (
	classWord runeClass = iota
	classSeparator
	classSpace
)

// Document is an in-memory Buffer over a rune slice.
type Document struct {
	text       []rune
	lineStarts []int
	separators string
	viewport   span.Span
}

// Ensure Document implements Buffer.
var _ Buffer = (*Document)(nil)

// NewDocument returns a document holding text whose coarse words are split
// on whitespace and the runes in separators. The viewport covers the whole
// document until SetViewport is called.
func NewDocument(text, separators string) *Document {
	d := &Document{separators: separators}
	d.SetText(text)
	d.viewport = span.Span{Start: 0, End: len(d.text)}
	return d
}

// Open reads path into a new Document.
func Open(path, separators string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the document the user asked to open
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return NewDocument(string(data), separators), nil
}

// SetText replaces the document contents. The viewport is clamped to the new
// length.
func (d *Document) SetText(text string) {
	d.text = []rune(text)
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i, r := range d.text {
		if r == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
	d.viewport = d.clampSpan(d.viewport)
}

// Text returns the document contents.
func (d *Document) Text() string {
	return string(d.text)
}

// SetSeparators changes the separator set used by WordAt.
func (d *Document) SetSeparators(separators string) {
	d.separators = separators
}

// SetViewport sets the visible span, clamped to the document.
func (d *Document) SetViewport(s span.Span) {
	d.viewport = d.clampSpan(s)
}

// Size implements Buffer.
func (d *Document) Size() int {
	return len(d.text)
}

// Substr implements Buffer.
func (d *Document) Substr(s span.Span) string {
	s = d.clampSpan(s)
	return string(d.text[s.Start:s.End])
}

// VisibleViewport implements Buffer.
func (d *Document) VisibleViewport() span.Span {
	return d.viewport
}

// FindAll implements Buffer.
func (d *Document) FindAll(p *pattern.Pattern) []span.Span {
	return p.FindAll(d.text)
}

// FindNext implements Buffer.
func (d *Document) FindNext(p *pattern.Pattern, from int) (span.Span, bool) {
	return p.FindNext(d.text, from)
}

// WordAt implements Buffer.
func (d *Document) WordAt(offset int) span.Span {
	offset = d.clamp(offset)
	n := len(d.text)

	var pivot int
	switch {
	case offset < n && d.classOf(d.text[offset]) == classWord:
		pivot = offset
	case offset > 0 && d.classOf(d.text[offset-1]) == classWord:
		pivot = offset - 1
	case offset < n:
		pivot = offset
	case offset > 0:
		pivot = offset - 1
	default:
		return span.Span{}
	}

	class := d.classOf(d.text[pivot])
	start, end := pivot, pivot+1
	for start > 0 && d.classOf(d.text[start-1]) == class {
		start--
	}
	for end < n && d.classOf(d.text[end]) == class {
		end++
	}
	return span.Span{Start: start, End: end}
}

// WordAtSpan implements Buffer.
func (d *Document) WordAtSpan(s span.Span) span.Span {
	s = d.clampSpan(s)
	if s.Empty() {
		return d.WordAt(s.Start)
	}
	return span.Span{
		Start: d.WordAt(s.Start).Start,
		End:   d.WordAt(s.End).End,
	}
}

func (d *Document) classOf(r rune) runeClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case strings.ContainsRune(d.separators, r):
		return classSeparator
	default:
		return classWord
	}
}

// LineCount returns the number of lines; a trailing newline starts an empty
// last line.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// Line returns the span of line i without its newline.
func (d *Document) Line(i int) span.Span {
	if i < 0 || i >= len(d.lineStarts) {
		return span.Span{Start: len(d.text), End: len(d.text)}
	}
	start := d.lineStarts[i]
	end := len(d.text)
	if i+1 < len(d.lineStarts) {
		end = d.lineStarts[i+1] - 1
	}
	return span.Span{Start: start, End: end}
}

// Position converts offset to a zero-based line and rune column.
func (d *Document) Position(offset int) (line, col int) {
	offset = d.clamp(offset)
	line = sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > offset }) - 1
	return line, offset - d.lineStarts[line]
}

// Offset converts a line and rune column to an offset, clamping the column
// to the line.
func (d *Document) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lineStarts) {
		return len(d.text)
	}
	l := d.Line(line)
	if col < 0 {
		col = 0
	}
	if col > l.Len() {
		col = l.Len()
	}
	return l.Start + col
}

func (d *Document) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(d.text) {
		return len(d.text)
	}
	return offset
}

func (d *Document) clampSpan(s span.Span) span.Span {
	return span.New(d.clamp(s.Start), d.clamp(s.End))
}
