package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pedalrun/internal/core"
)

// RideKeyMap defines the key bindings used while riding.
// Space stands in for the cadence sensor: one press is one pedal pulse.
type RideKeyMap struct {
	Pedal      key.Binding
	Up         key.Binding
	Down       key.Binding
	Confirm    key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RideKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pedal, k.Confirm, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RideKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pedal, k.Up, k.Down, k.Confirm},
		{k.Screenshot, k.Quit},
	}
}

// DefaultRideKeyMap returns default key bindings.
func DefaultRideKeyMap() RideKeyMap {
	return RideKeyMap{
		Pedal: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "pedal"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("up/w", "menu up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("down/s", "menu down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to ride actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys RideKeyMap
}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultRideKeyMap()}
}

// Keys returns the bindings, for the help view.
func (km *KeyMapper) Keys() RideKeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Screenshot is not an action and maps to ActionNone.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit
	case key.Matches(msg, km.keys.Pedal):
		return core.ActionPedal
	case key.Matches(msg, km.keys.Up):
		return core.ActionUp
	case key.Matches(msg, km.keys.Down):
		return core.ActionDown
	case key.Matches(msg, km.keys.Confirm):
		return core.ActionConfirm
	}
	return core.ActionNone
}
