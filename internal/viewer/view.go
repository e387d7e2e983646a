package viewer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/cursorword/internal/highlight"
	"github.com/zjrosen/cursorword/internal/span"
)

const tabWidth = 4

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	gutter := GutterIcon(m.settings.GutterIcon)
	live, _ := m.canvas.Group(highlight.LiveKey)
	sel := m.Selection()

	h := m.bodyHeight()
	for i := m.top; i < m.top+h; i++ {
		if i < m.doc.LineCount() {
			line := m.doc.Line(i)
			if gutter != "" {
				b.WriteString(m.renderGutter(line, live.Spans, gutter))
			}
			b.WriteString(m.renderLine(line, sel, m.width-runewidth.StringWidth(gutterPad(gutter))))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func gutterPad(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}

func (m Model) renderGutter(line span.Span, spans []span.Span, icon string) string {
	for _, s := range spans {
		if s.Start >= line.Start && s.Start < line.End {
			return gutterStyle.Render(gutterPad(icon))
		}
	}
	return strings.Repeat(" ", runewidth.StringWidth(gutterPad(icon)))
}

// cell identifies how one rune is drawn.
type cell struct {
	kind  int
	decor highlight.Style
}

const (
	cellText = iota
	cellCaret
	cellSelection
	cellDecoration
)

func (c cell) style() lipgloss.Style {
	switch c.kind {
	case cellCaret:
		return caretStyle
	case cellSelection:
		return selectionStyle
	case cellDecoration:
		return DecorationStyle(c.decor)
	default:
		return textStyle
	}
}

// renderLine draws line clipped to width cells, styling runs of runes that
// are drawn the same way together.
func (m Model) renderLine(line span.Span, sel span.Span, width int) string {
	var (
		b    strings.Builder
		run  strings.Builder
		cur  cell
		used int
	)
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(cur.style().Render(run.String()))
			run.Reset()
		}
	}

	offset := line.Start
	for _, r := range m.doc.Substr(line) {
		text := string(r)
		if r == '\t' {
			text = strings.Repeat(" ", tabWidth)
		}
		w := runewidth.StringWidth(text)
		if used+w > width {
			break
		}
		if next := m.cellAt(offset, sel); next != cur {
			flush()
			cur = next
		}
		run.WriteString(text)
		used += w
		offset++
	}
	if m.caret == line.End && used < width {
		flush()
		cur = cell{kind: cellCaret}
		run.WriteString(" ")
	}
	flush()
	return b.String()
}

func (m Model) cellAt(offset int, sel span.Span) cell {
	if offset == m.caret {
		return cell{kind: cellCaret}
	}
	if sel.Contains(offset) {
		return cell{kind: cellSelection}
	}
	if s, ok := m.canvas.At(offset); ok {
		return cell{kind: cellDecoration, decor: s}
	}
	return cell{kind: cellText}
}

func (m Model) statusLine() string {
	line, col := m.doc.Position(m.caret)
	name := filepath.Base(m.path)
	if m.path == "" {
		name = "[buffer]"
	}
	left := fmt.Sprintf(" %s  %d:%d", name, line+1, col+1)
	if m.liveOff {
		left += "  live off"
	}
	right := m.canvas.StatusText()
	if m.err != nil {
		right = errorStyle.Render(m.err.Error())
	}

	text := left
	if right != "" {
		text += "  " + right
	}
	text = truncate.StringWithTail(text, uint(max(m.width, 0)), "…")
	pad := m.width - ansi.StringWidth(text)
	if pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return statusStyle.Render(text)
}
