package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the gallery.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Focus      key.Binding
	Unfocus    key.Binding
	YankSource key.Binding
	Search     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "previous item"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "next item"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "column left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "column right"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "first item"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "last item"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "focus / open link"),
		),
		Unfocus: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "unfocus"),
		),
		YankSource: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "yank source"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
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
	return []key.Binding{k.Down, k.Focus, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Focus, k.Unfocus, k.YankSource, k.Search},
		{k.Help, k.Quit},
	}
}
