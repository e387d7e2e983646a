package config

import (
	"slices"

	"github.com/zjrosen/cursorword/internal/pattern"
)

// DrawStyle is how a decoration group is drawn.
type DrawStyle int

const (
	DrawOutline DrawStyle = iota
	DrawFill
	DrawUnderline
)

func (d DrawStyle) String() string {
	switch d {
	case DrawFill:
		return "fill"
	case DrawUnderline:
		return "underline"
	default:
		return "outline"
	}
}

// Settings is an immutable snapshot of the search configuration, resolved
// once per config load or change. Components receive it per call.
type Settings struct {
	Enabled             bool
	Mode                pattern.MatchMode
	WholeWord           bool
	Separators          string
	DrawStyle           DrawStyle
	ColorScope          string
	GutterIcon          string // "" when gutter marking is off
	MinLength           int
	MinPersistentLength int
	SizeThreshold       int
	WindowRadius        int

	palette []string
}

// PatternOptions returns the boundary options a word pattern is built with.
func (s Settings) PatternOptions() pattern.Options {
	return pattern.Options{WholeWord: s.WholeWord, Separators: s.Separators}
}

// Palette returns a copy of the persistent highlight scopes.
func (s Settings) Palette() []string {
	return slices.Clone(s.palette)
}

// PaletteScope returns the scope for the i-th persistent word.
func (s Settings) PaletteScope(i int) string {
	if len(s.palette) == 0 {
		return s.ColorScope
	}
	return s.palette[i%len(s.palette)]
}

// Resolve turns a decoded Config into Settings. Out of range values fall
// back to their defaults.
func Resolve(c Config) Settings {
	d := Defaults()
	h := c.Highlight

	s := Settings{
		Enabled:             h.Enabled,
		Mode:                pattern.CaseSensitive,
		WholeWord:           h.WholeWord,
		Separators:          h.WordSeparators,
		DrawStyle:           DrawOutline,
		ColorScope:          h.ColorScopeName,
		MinLength:           h.MinActiveLength,
		MinPersistentLength: h.MinActiveLengthPersistent,
		SizeThreshold:       c.Search.SizeThreshold,
		WindowRadius:        c.Search.WindowRadius,
		palette:             slices.Clone(c.Persistent.Palette),
	}

	if !h.CaseSensitive {
		s.Mode = pattern.IgnoreCase
	}
	if !h.DrawOutlined {
		s.DrawStyle = DrawFill
	}
	if h.MarkOccurrencesOnGutter {
		s.GutterIcon = h.IconTypeOnGutter
		if s.GutterIcon == "" {
			s.GutterIcon = d.Highlight.IconTypeOnGutter
		}
	}
	if s.ColorScope == "" {
		s.ColorScope = d.Highlight.ColorScopeName
	}
	if s.MinLength < 0 {
		s.MinLength = d.Highlight.MinActiveLength
	}
	if s.MinPersistentLength < 0 {
		s.MinPersistentLength = d.Highlight.MinActiveLengthPersistent
	}
	if s.SizeThreshold <= 0 {
		s.SizeThreshold = d.Search.SizeThreshold
	}
	if s.WindowRadius < 0 {
		s.WindowRadius = d.Search.WindowRadius
	}
	if len(s.palette) == 0 {
		s.palette = d.Persistent.Palette
	}
	return s
}

// DefaultSettings resolves Defaults().
func DefaultSettings() Settings {
	return Resolve(Defaults())
}
