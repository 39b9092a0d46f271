package tui

import (
	"footfit/internal/models"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Submit key.Binding
	Back   key.Binding
	Reset  key.Binding
	Export key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "field")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "tab")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "choose")),
		Next:   key.NewBinding(key.WithKeys("right", "l", " ")),
		Submit: key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter", "next")),
		Back:   key.NewBinding(key.WithKeys("b", "backspace"), key.WithHelp("b", "back")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"), key.WithHelp("q", "quit")),
	}
}

// forStep lists the bindings shown in the help footer for a step. Back is
// hidden on the first step, field keys on the recommendation step.
func (k keyMap) forStep(step models.Step) []key.Binding {
	switch step {
	case models.Step1:
		return []key.Binding{k.Up, k.Prev, k.Submit, k.Reset, k.Quit}
	case models.Step2:
		return []key.Binding{k.Up, k.Prev, k.Submit, k.Back, k.Reset, k.Quit}
	default:
		reset := k.Reset
		reset.SetHelp("r", "start over")
		return []key.Binding{k.Export, k.Back, reset, k.Quit}
	}
}
