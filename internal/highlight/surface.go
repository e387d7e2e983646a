// Package highlight drives the live and persistent word highlighters.
//
// Live highlighting follows the caret: every qualifying interaction replaces
// one decoration group with the occurrences of the word under the caret.
// Persistent highlighting keeps a user-curated list of words decorated, one
// group per word, until the list is toggled off or cleared.
package highlight

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/span"
)

// Style is how a decoration group is drawn.
type Style struct {
	Scope string
	Icon  string // gutter icon, "" for none
	Draw  config.DrawStyle
}

// Decorations is the host's named decoration groups. Groups with different
// keys coexist; setting a group replaces its previous spans.
type Decorations interface {
	SetGroup(key string, spans []span.Span, style Style) error
	ClearGroup(key string) error
}

// StatusLine is the host's keyed status messages.
type StatusLine interface {
	SetStatus(key, msg string)
	EraseStatus(key string)
}

// Surface is everything a highlighter draws on.
type Surface interface {
	Decorations
	StatusLine
}

// Group is one decoration group as stored by Canvas.
type Group struct {
	Spans []span.Span
	Style Style
}

// Canvas is an in-memory Surface.
type Canvas struct {
	mu     sync.RWMutex
	groups map[string]Group
	status map[string]string
}

// Ensure Canvas implements Surface.
var _ Surface = (*Canvas)(nil)

// NewCanvas returns an empty Canvas.
func NewCanvas() *Canvas {
	return &Canvas{
		groups: make(map[string]Group),
		status: make(map[string]string),
	}
}

// SetGroup implements Decorations.
func (c *Canvas) SetGroup(key string, spans []span.Span, style Style) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[key] = Group{Spans: slices.Clone(spans), Style: style}
	return nil
}

// ClearGroup implements Decorations.
func (c *Canvas) ClearGroup(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.groups, key)
	return nil
}

// SetStatus implements StatusLine.
func (c *Canvas) SetStatus(key, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[key] = msg
}

// EraseStatus implements StatusLine.
func (c *Canvas) EraseStatus(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.status, key)
}

// Group returns the group stored under key.
func (c *Canvas) Group(key string) (Group, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.groups[key]
	return g, ok
}

// Keys returns the keys of every group, sorted.
func (c *Canvas) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.groups))
}

// Status returns the message stored under key.
func (c *Canvas) Status(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msg, ok := c.status[key]
	return msg, ok
}

// StatusText returns every status message ordered by key, joined by " | ".
func (c *Canvas) StatusText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := slices.Sorted(maps.Keys(c.status))
	msgs := make([]string, 0, len(keys))
	for _, key := range keys {
		msgs = append(msgs, c.status[key])
	}
	return strings.Join(msgs, " | ")
}

// At returns the style of the last group, in key order, whose spans contain
// offset.
func (c *Canvas) At(offset int) (Style, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var (
		style Style
		found bool
	)
	for _, key := range slices.Sorted(maps.Keys(c.groups)) {
		g := c.groups[key]
		i, ok := slices.BinarySearchFunc(g.Spans, offset, func(s span.Span, off int) int {
			switch {
			case s.End <= off:
				return -1
			case s.Start > off:
				return 1
			default:
				return 0
			}
		})
		if ok && g.Spans[i].Contains(offset) {
			style, found = g.Style, true
		}
	}
	return style, found
}
