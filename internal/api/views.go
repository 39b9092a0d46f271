package api

import (
	"footfit/internal/models"
	"footfit/internal/wizard"
)

type fieldView struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
	Value   string   `json:"value,omitempty"`
}

type stepView struct {
	Step   int         `json:"step"`
	Title  string      `json:"title"`
	Fields []fieldView `json:"fields"`
}

// stateView is what a rendering layer needs to draw the active step.
type stateView struct {
	SessionID      string                 `json:"sessionId"`
	CurrentStep    int                    `json:"currentStep"`
	Title          string                 `json:"title"`
	Fields         []fieldView            `json:"fields"`
	Profile        models.UserProfile     `json:"profile"`
	CanAdvance     bool                   `json:"canAdvance"`
	CanRetreat     bool                   `json:"canRetreat"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
}

type outcomeView struct {
	Event       string   `json:"event"`
	From        int      `json:"from"`
	To          int      `json:"to"`
	Substituted []string `json:"substituted,omitempty"`
}

type transitionView struct {
	State   stateView   `json:"state"`
	Outcome outcomeView `json:"outcome"`
}

func newFieldViews(step models.Step, selections map[models.Field]string) []fieldView {
	fields := step.Fields()
	out := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldView{
			Name:    string(f),
			Label:   f.Label(),
			Options: f.Options(),
			Value:   selections[f],
		})
	}
	return out
}

func newStateView(s *models.WizardState) stateView {
	return stateView{
		SessionID:      s.SessionID,
		CurrentStep:    int(s.CurrentStep),
		Title:          s.CurrentStep.Title(),
		Fields:         newFieldViews(s.CurrentStep, s.Transient),
		Profile:        s.Profile,
		CanAdvance:     s.CurrentStep != models.Step3,
		CanRetreat:     s.CurrentStep != models.Step1,
		Recommendation: s.Recommendation,
	}
}

func newOutcomeView(o wizard.Outcome) outcomeView {
	v := outcomeView{Event: string(o.Event), From: int(o.From), To: int(o.To)}
	for _, f := range o.Substituted {
		v.Substituted = append(v.Substituted, string(f))
	}
	return v
}

func optionsView() []stepView {
	out := make([]stepView, 0, len(models.Steps))
	for _, s := range models.Steps {
		out = append(out, stepView{
			Step:   int(s),
			Title:  s.Title(),
			Fields: newFieldViews(s, nil),
		})
	}
	return out
}
