// internal/models/wizard.go
package models

import (
	"fmt"
	"time"
)

// Step is a wizard page. The zero value is not a valid step.
type Step int

const (
	Step1 Step = iota + 1 // body: age, gender, weight
	Step2                 // activity, arch, footwear
	Step3                 // recommendation
)

var Steps = []Step{Step1, Step2, Step3}

func (s Step) IsValid() bool {
	return s >= Step1 && s <= Step3
}

func (s Step) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return fmt.Sprintf("Step%d", int(s))
}

// Fields returns the profile fields collected on this step.
func (s Step) Fields() []Field {
	var out []Field
	for _, f := range Fields {
		if f.Step() == s {
			out = append(out, f)
		}
	}
	return out
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case Step1:
		return "About you"
	case Step2:
		return "How you move"
	case Step3:
		return "Your recommendation"
	default:
		return s.String()
	}
}

// WizardState is the whole per-session state. It is owned by a
// wizard.Controller; everything else receives copies.
type WizardState struct {
	SessionID      string           `json:"sessionId"`
	CurrentStep    Step             `json:"currentStep"`
	Profile        UserProfile      `json:"profile"`
	Transient      map[Field]string `json:"transient,omitempty"`
	Recommendation *Recommendation  `json:"recommendation,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// NewWizardState returns an empty state positioned on Step1.
func NewWizardState(sessionID string) *WizardState {
	now := time.Now().UTC()
	return &WizardState{
		SessionID:   sessionID,
		CurrentStep: Step1,
		Transient:   make(map[Field]string),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the state.
func (s *WizardState) Clone() *WizardState {
	if s == nil {
		return nil
	}
	out := *s
	out.Transient = make(map[Field]string, len(s.Transient))
	for k, v := range s.Transient {
		out.Transient[k] = v
	}
	if s.Recommendation != nil {
		rec := *s.Recommendation
		out.Recommendation = &rec
	}
	return &out
}

// Recommendation is the engine output handed to rendering and export.
type Recommendation struct {
	Brand         string    `json:"brand"`
	MaterialSpec  string    `json:"materialSpec"`
	Justification string    `json:"justification"`
	Tip           string    `json:"tip"`
	GeneratedAt   time.Time `json:"generatedAt"`
}
