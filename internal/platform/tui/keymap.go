package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ledtris/internal/core"
)

// KeyMap holds the simulator's key bindings. The four game bindings stand
// in for the hardware buttons.
type KeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Drop   key.Binding
	Rotate key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Drop, k.Rotate, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Drop, k.Rotate},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Drop: key.NewBinding(
			key.WithKeys("down", "s", " "),
			key.WithHelp("↓/s/space", "drop"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "rotate"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action maps a key to the button it stands for.
func (k KeyMap) Action(msg tea.KeyMsg) (core.ButtonAction, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return core.ActionMoveLeft, true
	case key.Matches(msg, k.Right):
		return core.ActionMoveRight, true
	case key.Matches(msg, k.Drop):
		return core.ActionDrop, true
	case key.Matches(msg, k.Rotate):
		return core.ActionRotate, true
	}
	return 0, false
}
