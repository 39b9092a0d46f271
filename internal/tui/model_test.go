package tui

import (
	"testing"

	"footfit/internal/engine"
	"footfit/internal/models"
	"footfit/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel() (Model, *wizard.Controller) {
	ctrl := wizard.New("tui", engine.NewSeeded(3), wizard.DefaultOptions())
	return New(ctrl), ctrl
}

// answerStep picks the first option of every field on the active step.
func answerStep(t *testing.T, m Model) Model {
	t.Helper()
	for range m.ctrl.CurrentStep().Fields() {
		m = press(t, m, keyRight, keyDown)
	}
	return m
}

func TestModel_CycleOptions(t *testing.T) {
	m, ctrl := newModel()

	m = press(t, m, keyRight)
	assert.Equal(t, "Under18", ctrl.Selection(models.FieldAgeGroup))

	m = press(t, m, keyRight, keyRight)
	assert.Equal(t, "26-35", ctrl.Selection(models.FieldAgeGroup))

	m = press(t, m, keyLeft, keyLeft, keyLeft)
	assert.Equal(t, "Over65", ctrl.Selection(models.FieldAgeGroup), "left wraps around")

	m = press(t, m, keyDown, keyLeft)
	assert.Equal(t, "Female", ctrl.Selection(models.FieldGender))
	assert.Contains(t, m.View(), "[Female]")
}

func TestModel_AdvanceRequiresAnswers(t *testing.T) {
	m, ctrl := newModel()

	m = press(t, m, keyEnter)

	assert.Equal(t, models.Step1, ctrl.CurrentStep())
	assert.Contains(t, m.View(), "Please answer: Age group, Gender, Weight")
}

func TestModel_FullWalkthrough(t *testing.T) {
	m, ctrl := newModel()

	m = answerStep(t, m)
	m = press(t, m, keyEnter)
	require.Equal(t, models.Step2, ctrl.CurrentStep())
	assert.Contains(t, m.View(), "How you move")

	m = answerStep(t, m)
	m = press(t, m, keyEnter)
	require.Equal(t, models.Step3, ctrl.CurrentStep())

	view := m.View()
	assert.Contains(t, view, engine.YouthSuffix, "first age option is Under18")
	assert.Contains(t, view, "Materials: ")

	m = press(t, m, runes("e"))
	assert.Contains(t, m.View(), "not a medical diagnostic")

	m = press(t, m, runes("b"))
	assert.Equal(t, models.Step2, ctrl.CurrentStep())
	assert.Contains(t, m.View(), "[Low]", "selections survive going back")

	m = press(t, m, runes("r"))
	assert.Equal(t, models.Step1, ctrl.CurrentStep())
	assert.Equal(t, models.UserProfile{}, ctrl.Profile())
}

func TestModel_BackOnStep1IsIgnored(t *testing.T) {
	m, ctrl := newModel()

	m = press(t, m, runes("b"))

	assert.Equal(t, models.Step1, ctrl.CurrentStep())
	assert.NotContains(t, m.View(), "NO_TRANSITION")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel()

	next, cmd := m.Update(runes("q"))

	require.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestModel_HelpFooterFollowsStep(t *testing.T) {
	m, ctrl := newModel()

	view := m.View()
	assert.Contains(t, view, "next")
	assert.NotContains(t, view, "back")

	m = answerStep(t, m)
	m = press(t, m, keyEnter)
	assert.Contains(t, m.View(), "back")

	m = answerStep(t, m)
	m = press(t, m, keyEnter)
	require.Equal(t, models.Step3, ctrl.CurrentStep())
	view = m.View()
	assert.Contains(t, view, "start over")
	assert.Contains(t, view, "export")
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newModel()

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})

	assert.Nil(t, cmd)
	assert.Equal(t, 40, next.(Model).help.Width)
}
