package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the bindings that apply across modes. Mode-specific
// keys (motions, mutations, prefixes) are dispatched by the per-mode
// update functions instead.
type KeyMap struct {
	ForceQuit   key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit without saving"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run command"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to normal mode"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "older command"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "newer command"),
		),
	}
}

// ShortHelp returns bindings shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ForceQuit, k.Cancel}
}

// FullHelp returns bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ForceQuit, k.Cancel},
		{k.Submit, k.HistoryPrev, k.HistoryNext},
	}
}
