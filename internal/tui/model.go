// Package tui is a terminal rendering of the three-step wizard. It only talks
// to the controller through its public operations.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"footfit/internal/export"
	"footfit/internal/models"
	"footfit/internal/wizard"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model driving a wizard.Controller.
type Model struct {
	ctrl     *wizard.Controller
	styles   Styles
	keys     keyMap
	help     help.Model
	focus    int
	status   string
	err      string
	exported bool
	quitting bool
}

func New(ctrl *wizard.Controller) Model {
	return Model{ctrl: ctrl, styles: DefaultStyles(), keys: defaultKeyMap(), help: help.New()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Submit):
		out, err := m.ctrl.Advance()
		m.report(out, err)
	case key.Matches(msg, m.keys.Back):
		out, err := m.ctrl.Retreat()
		m.report(out, err)
	case key.Matches(msg, m.keys.Reset):
		m.report(m.ctrl.Reset(), nil)
	case key.Matches(msg, m.keys.Export):
		if m.ctrl.CurrentStep() == models.Step3 {
			m.exported = !m.exported
		}
	}
	return m, nil
}

func (m *Model) moveFocus(delta int) {
	n := len(m.ctrl.CurrentStep().Fields())
	if n == 0 {
		return
	}
	m.focus = (m.focus + delta + n) % n
}

// cycle moves the focused field's selection through its options.
func (m *Model) cycle(delta int) {
	fields := m.ctrl.CurrentStep().Fields()
	if len(fields) == 0 {
		return
	}
	f := fields[m.focus]
	opts := f.Options()

	idx := indexOf(opts, m.ctrl.Selection(f))
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx = (idx + delta + len(opts)) % len(opts)
	}
	if err := m.ctrl.SetField(m.ctrl.CurrentStep(), f, opts[idx]); err != nil {
		m.err = err.Error()
	}
}

func (m *Model) report(out wizard.Outcome, err error) {
	var missing *wizard.MissingFieldError
	switch {
	case errors.As(err, &missing):
		labels := make([]string, len(missing.Fields))
		for i, f := range missing.Fields {
			labels[i] = f.Label()
		}
		m.err = "Please answer: " + strings.Join(labels, ", ")
		return
	case errors.Is(err, wizard.ErrNoTransition):
		return
	case err != nil:
		m.err = err.Error()
		return
	}
	m.focus = 0
	m.exported = false
	if len(out.Substituted) > 0 {
		m.status = fmt.Sprintf("Defaults used for %d unanswered field(s)", len(out.Substituted))
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	step := m.ctrl.CurrentStep()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("FootFit · %s (%d/3)", step.Title(), int(step))))
	b.WriteString("\n")

	if step == models.Step3 {
		b.WriteString(m.recommendationView())
	} else {
		for i, f := range step.Fields() {
			b.WriteString(m.fieldView(f, i == m.focus))
			b.WriteString("\n")
		}
	}

	if m.err != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.err) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.styles.Muted.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView(m.keys.forStep(step)) + "\n")
	return b.String()
}

func (m Model) fieldView(f models.Field, focused bool) string {
	label := m.styles.Label.Render(f.Label())
	if focused {
		label = m.styles.Focused.Render("› ") + label
	} else {
		label = "  " + label
	}

	current := m.ctrl.Selection(f)
	opts := make([]string, 0, len(f.Options()))
	for _, o := range f.Options() {
		if o == current {
			opts = append(opts, m.styles.Selected.Render("["+o+"]"))
		} else {
			opts = append(opts, m.styles.Option.Render(o))
		}
	}
	return label + strings.Join(opts, " ")
}

func (m Model) recommendationView() string {
	rec, err := m.ctrl.Recommendation()
	if err != nil {
		return m.styles.Error.Render(err.Error())
	}
	if m.exported {
		return m.styles.Card.Render(export.Text(m.ctrl.Profile(), *rec))
	}
	lines := []string{
		m.styles.Selected.Render(rec.Brand),
		"",
		"Materials: " + rec.MaterialSpec,
		"Why: " + rec.Justification,
		"",
		m.styles.Muted.Render("Tip: " + rec.Tip),
	}
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctrl *wizard.Controller, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(ctrl), opts...).Run()
	return err
}
