package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the bindings of the hot-seat client.
type KeyMap struct {
	RollOne key.Binding
	RollTwo key.Binding
	Reset   key.Binding
	Sound   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		RollOne: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "roll for player 1"),
		),
		RollTwo: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "roll for player 2"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new game"),
		),
		Sound: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sound on/off"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.RollOne, k.RollTwo, k.Reset, k.Sound, k.Quit}
}
