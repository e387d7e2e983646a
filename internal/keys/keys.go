// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer keybindings.
type KeyMap struct {
	// Caret
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	WordLeft  key.Binding
	WordRight key.Binding
	LineStart key.Binding
	LineEnd   key.Binding
	PageUp    key.Binding
	PageDown  key.Binding

	// Selection
	SelectLeft  key.Binding
	SelectRight key.Binding
	SelectWord  key.Binding
	Collapse    key.Binding

	// Highlighting
	TogglePersistent key.Binding
	ClearPersistent  key.Binding
	ToggleLive       key.Binding
	Reload           key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "line up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "line down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		WordLeft: key.NewBinding(
			key.WithKeys("b", "ctrl+left"),
			key.WithHelp("b", "previous word"),
		),
		WordRight: key.NewBinding(
			key.WithKeys("w", "ctrl+right"),
			key.WithHelp("w", "next word"),
		),
		LineStart: key.NewBinding(
			key.WithKeys("0", "home"),
			key.WithHelp("0", "line start"),
		),
		LineEnd: key.NewBinding(
			key.WithKeys("$", "end"),
			key.WithHelp("$", "line end"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "page down"),
		),

		SelectLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "extend left"),
		),
		SelectRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "extend right"),
		),
		SelectWord: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "select word"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "drop selection"),
		),

		TogglePersistent: key.NewBinding(
			key.WithKeys("t", "enter"),
			key.WithHelp("t", "toggle persistent word"),
		),
		ClearPersistent: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear persistent words"),
		),
		ToggleLive: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "live highlighting on/off"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload document"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePersistent, k.ClearPersistent, k.SelectWord, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.WordLeft, k.WordRight},
		{k.LineStart, k.LineEnd, k.PageUp, k.PageDown},
		{k.SelectLeft, k.SelectRight, k.SelectWord, k.Collapse},
		{k.TogglePersistent, k.ClearPersistent, k.ToggleLive, k.Reload, k.Help, k.Quit},
	}
}
