// Package viewer is a terminal viewer for one document with live and
// persistent word highlighting.
package viewer

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/cursorword/internal/buffer"
	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/docstate"
	"github.com/zjrosen/cursorword/internal/highlight"
	"github.com/zjrosen/cursorword/internal/keys"
	"github.com/zjrosen/cursorword/internal/locator"
	"github.com/zjrosen/cursorword/internal/log"
	"github.com/zjrosen/cursorword/internal/pubsub"
	"github.com/zjrosen/cursorword/internal/scanner"
	"github.com/zjrosen/cursorword/internal/segment"
	"github.com/zjrosen/cursorword/internal/span"
)

// Options wires a Model. Segmenter, Settings and Changes are optional.
type Options struct {
	Path      string
	Document  *buffer.Document
	Locator   *locator.Locator
	Scanner   *scanner.Scanner
	Segmenter *segment.Segmenter
	Settings  *config.Store
	State     docstate.Store
	Changes   *pubsub.Broker[string]
	Tracer    trace.Tracer
}

// dictionaryReadyMsg reports that the background dictionary load finished.
type dictionaryReadyMsg struct{ err error }

// Model is the Bubble Tea model of the viewer.
type Model struct {
	ctx  context.Context
	path string
	doc  *buffer.Document

	canvas  *highlight.Canvas
	live    *highlight.Live
	persist *highlight.Persistent
	state   docstate.Store
	seg     *segment.Segmenter

	settings       config.Settings
	liveOff        bool
	settingsListen *pubsub.ContinuousListener[config.Settings]
	changesListen  *pubsub.ContinuousListener[string]

	keys     keys.KeyMap
	help     help.Model
	showHelp bool

	caret   int
	anchor  int
	wantCol int
	top     int
	width   int
	height  int
	err     error
}

// New builds the viewer and renders the document's stored persistent words.
func New(ctx context.Context, opts Options) Model {
	canvas := highlight.NewCanvas()
	m := Model{
		ctx:     ctx,
		path:    opts.Path,
		doc:     opts.Document,
		canvas:  canvas,
		live:    highlight.NewLive(opts.Locator, opts.Scanner, canvas, opts.Tracer),
		persist: highlight.NewPersistent(opts.Locator, opts.Scanner, canvas, opts.Tracer),
		state:   opts.State,
		seg:     opts.Segmenter,
		keys:    keys.DefaultKeyMap(),
		help:    help.New(),
		width:   80,
		height:  24,
	}
	if m.state == nil {
		m.state = docstate.NewMemory()
	}
	if opts.Settings != nil {
		m.settings = opts.Settings.Current()
		m.settingsListen = pubsub.NewContinuousListener(ctx, opts.Settings.Broker())
	} else {
		m.settings = config.DefaultSettings()
	}
	if opts.Changes != nil {
		m.changesListen = pubsub.NewContinuousListener(ctx, opts.Changes)
	}
	m.doc.SetSeparators(m.settings.Separators)
	m.updateViewport()
	m.renderPersistent()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.settingsListen != nil {
		cmds = append(cmds, m.settingsListen.Listen())
	}
	if m.changesListen != nil {
		cmds = append(cmds, m.changesListen.Listen())
	}
	if m.seg != nil && !m.seg.Ready() {
		cmds = append(cmds, waitForDictionary(m.ctx, m.seg))
	}
	cmds = append(cmds, func() tea.Msg { return highlightMsg{kind: highlight.KindCaretMove} })
	return tea.Batch(cmds...)
}

// highlightMsg asks for a live pass without moving the caret.
type highlightMsg struct{ kind highlight.Kind }

func waitForDictionary(ctx context.Context, seg *segment.Segmenter) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-seg.Done():
			return dictionaryReadyMsg{err: seg.Err()}
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scrollToCaret()
		m.refreshLive(highlight.KindCaretMove)
		return m, nil

	case highlightMsg:
		m.refreshLive(msg.kind)
		return m, nil

	case dictionaryReadyMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		m.refreshLive(highlight.KindCaretMove)
		return m, nil

	case pubsub.Event[config.Settings]:
		m.settings = msg.Payload
		m.doc.SetSeparators(m.settings.Separators)
		log.Info(log.CatUI, "Settings reloaded")
		m.renderPersistent()
		m.refreshLive(highlight.KindCaretMove)
		return m, m.settingsListen.Listen()

	case pubsub.Event[string]:
		if msg.Type == pubsub.ChangedEvent {
			m.reload()
		}
		return m, m.changesListen.Listen()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.moveTo(m.prevGrapheme(m.caret), false)
	case key.Matches(msg, m.keys.Right):
		m.moveTo(m.nextGrapheme(m.caret), false)
	case key.Matches(msg, m.keys.Up):
		m.moveLines(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveLines(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveLines(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveLines(m.bodyHeight())
	case key.Matches(msg, m.keys.WordLeft):
		m.moveTo(m.prevWord(m.caret), false)
	case key.Matches(msg, m.keys.WordRight):
		m.moveTo(m.nextWord(m.caret), false)
	case key.Matches(msg, m.keys.LineStart):
		line, _ := m.doc.Position(m.caret)
		m.moveTo(m.doc.Line(line).Start, false)
	case key.Matches(msg, m.keys.LineEnd):
		line, _ := m.doc.Position(m.caret)
		m.moveTo(m.doc.Line(line).End, false)

	case key.Matches(msg, m.keys.SelectLeft):
		m.moveTo(m.prevGrapheme(m.caret), true)
		m.refreshLive(highlight.KindDragSelect)
		return m, nil
	case key.Matches(msg, m.keys.SelectRight):
		m.moveTo(m.nextGrapheme(m.caret), true)
		m.refreshLive(highlight.KindDragSelect)
		return m, nil
	case key.Matches(msg, m.keys.SelectWord):
		w := m.doc.WordAt(m.caret)
		m.anchor, m.caret = w.Start, w.End
		m.scrollToCaret()
		m.refreshLive(highlight.KindDragSelect)
		return m, nil
	case key.Matches(msg, m.keys.Collapse):
		m.anchor = m.caret

	case key.Matches(msg, m.keys.TogglePersistent):
		if _, err := m.persist.Toggle(m.ctx, m.doc, m.selections(), m.state, m.settings); err != nil {
			m.err = err
		}
		return m, nil
	case key.Matches(msg, m.keys.ClearPersistent):
		if err := m.persist.Clear(m.ctx, m.state); err != nil {
			m.err = err
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleLive):
		m.liveOff = !m.liveOff
	case key.Matches(msg, m.keys.Reload):
		m.reload()
		return m, nil

	default:
		return m, nil
	}

	m.refreshLive(highlight.KindCaretMove)
	return m, nil
}

// moveTo places the caret at offset, keeping the anchor when extending.
func (m *Model) moveTo(offset int, extend bool) {
	m.caret = clamp(offset, 0, m.doc.Size())
	if !extend {
		m.anchor = m.caret
	}
	_, m.wantCol = m.doc.Position(m.caret)
	m.scrollToCaret()
}

func (m *Model) moveLines(delta int) {
	line, _ := m.doc.Position(m.caret)
	line = clamp(line+delta, 0, m.doc.LineCount()-1)
	m.caret = m.doc.Offset(line, m.wantCol)
	m.anchor = m.caret
	m.scrollToCaret()
}

func (m *Model) prevGrapheme(offset int) int {
	line, _ := m.doc.Position(offset)
	l := m.doc.Line(line)
	if offset <= l.Start {
		return offset - 1
	}
	prev, pos := l.Start, l.Start
	g := uniseg.NewGraphemes(m.doc.Substr(l))
	for g.Next() {
		if pos >= offset {
			break
		}
		prev = pos
		pos += len(g.Runes())
	}
	return prev
}

func (m *Model) nextGrapheme(offset int) int {
	line, _ := m.doc.Position(offset)
	l := m.doc.Line(line)
	if offset >= l.End {
		return offset + 1
	}
	rest := m.doc.Substr(span.New(offset, l.End))
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
	return offset + utf8.RuneCountInString(cluster)
}

func (m *Model) nextWord(offset int) int {
	if end := m.doc.WordAt(offset).End; end > offset {
		return end
	}
	return offset + 1
}

func (m *Model) prevWord(offset int) int {
	if start := m.doc.WordAt(offset).Start; start < offset {
		return start
	}
	return m.doc.WordAt(offset - 1).Start
}

func (m *Model) bodyHeight() int {
	h := m.height - 1 - m.helpHeight()
	return max(h, 1)
}

func (m *Model) helpHeight() int {
	if !m.showHelp {
		return 1
	}
	h := 0
	for _, col := range m.keys.FullHelp() {
		h = max(h, len(col))
	}
	return h
}

func (m *Model) scrollToCaret() {
	line, _ := m.doc.Position(m.caret)
	h := m.bodyHeight()
	if line < m.top {
		m.top = line
	}
	if line >= m.top+h {
		m.top = line - h + 1
	}
	m.updateViewport()
}

func (m *Model) updateViewport() {
	last := min(m.top+m.bodyHeight(), m.doc.LineCount()) - 1
	m.doc.SetViewport(span.New(m.doc.Line(m.top).Start, m.doc.Line(max(last, m.top)).End))
}

func (m *Model) selections() []span.Span {
	return []span.Span{span.New(m.anchor, m.caret)}
}

func (m *Model) liveSettings() config.Settings {
	s := m.settings
	s.Enabled = s.Enabled && !m.liveOff
	return s
}

func (m *Model) refreshLive(kind highlight.Kind) {
	m.live.Handle(m.ctx, m.doc, m.selections(), kind, m.liveSettings())
}

func (m *Model) renderPersistent() {
	list, err := m.persist.Load(m.ctx, m.state)
	if err != nil {
		m.err = err
		return
	}
	if err := m.persist.Render(m.ctx, m.doc, list, m.state, m.settings); err != nil {
		m.err = err
	}
}

func (m *Model) reload() {
	if m.path == "" {
		return
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		m.err = fmt.Errorf("reloading %s: %w", m.path, err)
		return
	}
	moved := remapOffsets(m.doc.Text(), string(data), m.caret, m.anchor)
	m.doc.SetText(string(data))
	m.caret = clamp(moved[0], 0, m.doc.Size())
	m.anchor = clamp(moved[1], 0, m.doc.Size())
	m.top = clamp(m.top, 0, m.doc.LineCount()-1)
	m.scrollToCaret()
	m.renderPersistent()
	m.refreshLive(highlight.KindCaretMove)
	log.Debug(log.CatUI, "Document reloaded", "path", m.path, "size", m.doc.Size())
}

// Canvas returns the decorations and status messages drawn so far.
func (m Model) Canvas() *highlight.Canvas { return m.canvas }

// Caret returns the caret offset.
func (m Model) Caret() int { return m.caret }

// Selection returns the current selection; it is empty for a bare caret.
func (m Model) Selection() span.Span { return span.New(m.anchor, m.caret) }

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
