package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/padview/padview/internal/views/help"
)

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	Connect    key.Binding
	Disconnect key.Binding
	Debug      key.Binding
	Help       key.Binding
	Escape     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings. Letters are left to the
// address input, so every global binding uses a modifier or function key.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Connect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "disconnect"),
		),
		Debug: key.NewBinding(
			key.WithKeys("f2", "ctrl+l"),
			key.WithHelp("f2", "event log"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "older"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "newer"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Connect, k.Disconnect, k.Debug, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Connect, k.Disconnect},
		{k.Debug, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Escape, k.Quit},
	}
}

// HelpRows flattens the bindings for the help overlay.
func (k KeyMap) HelpRows() []help.Binding {
	var rows []help.Binding
	for _, group := range k.FullHelp() {
		for _, b := range group {
			h := b.Help()
			rows = append(rows, help.Binding{Keys: h.Key, Desc: h.Desc})
		}
	}
	return rows
}
