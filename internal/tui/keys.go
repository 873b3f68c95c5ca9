package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Start   key.Binding
	Restart key.Binding
	Abort   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new drill"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// bindings adapts a fixed set of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding {
	return b
}

func (b bindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{b}
}

func (k keyMap) forPhase(p phase) bindings {
	switch p {
	case phaseIntro:
		return bindings{k.Start, k.Abort}
	case phaseTyping:
		return bindings{k.Abort}
	default:
		return bindings{k.Restart, k.Quit}
	}
}
