package viewer

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/cursorword/internal/config"
	"github.com/zjrosen/cursorword/internal/highlight"
)

// Scope colors. Scope names follow the color scheme names the settings use.
var scopeColors = map[string]lipgloss.AdaptiveColor{
	"comment":            {Light: "#7C7F93", Dark: "#9399B2"},
	"string":             {Light: "#40A02B", Dark: "#A6E3A1"},
	"keyword":            {Light: "#8839EF", Dark: "#CBA6F7"},
	"constant":           {Light: "#FE640B", Dark: "#FAB387"},
	"invalid":            {Light: "#D20F39", Dark: "#F38BA8"},
	"invalid.deprecated": {Light: "#E64553", Dark: "#EBA0AC"},
	"entity.name.class":  {Light: "#DF8E1D", Dark: "#F9E2AF"},
	"support.function":   {Light: "#1E66F5", Dark: "#89B4FA"},
	"variable.parameter": {Light: "#179299", Dark: "#94E2D5"},
}

// fallbackColors are handed out by hash to scopes without a color.
var fallbackColors = []lipgloss.AdaptiveColor{
	{Light: "#04A5E5", Dark: "#89DCEB"},
	{Light: "#EA76CB", Dark: "#F5C2E7"},
	{Light: "#DD7878", Dark: "#F2CDCD"},
	{Light: "#7287FD", Dark: "#B4BEFE"},
}

var (
	textStyle      = lipgloss.NewStyle()
	caretStyle     = lipgloss.NewStyle().Reverse(true)
	selectionStyle = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#CCD0DA", Dark: "#45475A"})
	gutterStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"})
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#CDD6F4"}).
			Background(lipgloss.AdaptiveColor{Light: "#DCE0E8", Dark: "#313244"})
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"})
)

// ScopeColor returns the color a scope is drawn with.
func ScopeColor(scope string) lipgloss.AdaptiveColor {
	if c, ok := scopeColors[scope]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(scope))
	return fallbackColors[h.Sum32()%uint32(len(fallbackColors))]
}

// DecorationStyle turns a decoration group style into a terminal style.
func DecorationStyle(s highlight.Style) lipgloss.Style {
	c := ScopeColor(s.Scope)
	switch s.Draw {
	case config.DrawFill:
		return lipgloss.NewStyle().Background(c).Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"})
	case config.DrawUnderline:
		return lipgloss.NewStyle().Foreground(c).Underline(true)
	default:
		return lipgloss.NewStyle().Foreground(c).Bold(true).Underline(true)
	}
}

// GutterIcon returns the glyph drawn for a gutter icon name.
func GutterIcon(name string) string {
	switch name {
	case "":
		return ""
	case "dot":
		return "•"
	case "circle":
		return "○"
	case "bookmark":
		return "▮"
	default:
		return string([]rune(name)[0])
	}
}
