// internal/wizard/controller.go
package wizard

import (
	"errors"
	"fmt"
	"time"

	"footfit/internal/models"
)

var (
	ErrNoTransition           = errors.New("NO_TRANSITION")
	ErrFieldNotInStep         = errors.New("FIELD_NOT_IN_STEP")
	ErrRecommendationNotReady = errors.New("RECOMMENDATION_NOT_READY")
)

// MissingFieldError is returned by Advance when the active step still has
// unanswered fields and the reject policy is in force.
type MissingFieldError struct {
	Step   models.Step
	Fields []models.Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("MISSING_FIELD: %s requires %v", e.Step, e.Fields)
}

// FieldNames returns the missing fields as strings.
func (e *MissingFieldError) FieldNames() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = string(f)
	}
	return out
}

// Recommender computes a recommendation for a complete profile.
type Recommender interface {
	Compute(p models.UserProfile) (*models.Recommendation, error)
}

// Event names a controller transition.
type Event string

const (
	EventNext  Event = "next"
	EventBack  Event = "back"
	EventReset Event = "reset"
)

// Outcome reports what a transition did.
type Outcome struct {
	Event       Event
	From        models.Step
	To          models.Step
	Substituted []models.Field
}

// Controller is the three-step state machine. It owns its state exclusively:
// callers get copies via Snapshot and mutate only through the transition
// methods. A Controller is not safe for concurrent use; each session owns one.
type Controller struct {
	state       *models.WizardState
	recommender Recommender
	opts        Options
	now         func() time.Time
}

// New returns a controller on Step1 with an empty profile.
func New(sessionID string, recommender Recommender, opts Options) *Controller {
	return &Controller{
		state:       models.NewWizardState(sessionID),
		recommender: recommender,
		opts:        opts.withDefaults(),
		now:         time.Now,
	}
}

// Restore returns a controller resuming a stored state.
func Restore(state *models.WizardState, recommender Recommender, opts Options) *Controller {
	s := state.Clone()
	if s.Transient == nil {
		s.Transient = make(map[models.Field]string)
	}
	if !s.CurrentStep.IsValid() {
		s.CurrentStep = models.Step1
	}
	return &Controller{
		state:       s,
		recommender: recommender,
		opts:        opts.withDefaults(),
		now:         time.Now,
	}
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() *models.WizardState {
	return c.state.Clone()
}

func (c *Controller) CurrentStep() models.Step {
	return c.state.CurrentStep
}

// Profile returns a copy of the committed profile.
func (c *Controller) Profile() models.UserProfile {
	return c.state.Profile
}

// Selection returns the value shown for a field on the active step: the
// transient selection if one was made, otherwise "".
func (c *Controller) Selection(f models.Field) string {
	return c.state.Transient[f]
}

// SetField records a value into the transient selection of the active step.
// Values outside the field's enumeration never reach the state.
func (c *Controller) SetField(step models.Step, field models.Field, value string) error {
	if field.Step() == 0 {
		return fmt.Errorf("%w: %q", models.ErrUnknownField, string(field))
	}
	if step != c.state.CurrentStep || field.Step() != step {
		return fmt.Errorf("%w: %s is collected on %s, active step is %s",
			ErrFieldNotInStep, field, field.Step(), c.state.CurrentStep)
	}
	if err := field.Validate(value); err != nil {
		return err
	}
	c.state.Transient[field] = value
	c.touch()
	return nil
}

// Advance moves Step1→Step2 or Step2→Step3 once every field of the active
// step has a value, committing the transient selection into the profile.
func (c *Controller) Advance() (Outcome, error) {
	from := c.state.CurrentStep
	if from == models.Step3 {
		return Outcome{}, fmt.Errorf("%w: %s has no next step", ErrNoTransition, from)
	}

	out := Outcome{Event: EventNext, From: from, To: from + 1}
	profile := c.state.Profile
	for _, f := range from.Fields() {
		v := c.state.Transient[f]
		if v == "" {
			out.Substituted = append(out.Substituted, f)
			v = f.Options()[0]
		}
		if err := profile.Set(f, v); err != nil {
			return Outcome{}, err
		}
	}
	if len(out.Substituted) > 0 && c.opts.MissingFields == MissingFieldsReject {
		return Outcome{}, &MissingFieldError{Step: from, Fields: out.Substituted}
	}

	var rec *models.Recommendation
	if out.To == models.Step3 && c.opts.Recompute == RecomputeOnTransition {
		var err error
		if rec, err = c.recommender.Compute(profile); err != nil {
			return Outcome{}, err
		}
	}

	c.state.Profile = profile
	c.enter(out.To)
	c.state.Recommendation = rec
	return out, nil
}

// Retreat moves Step2→Step1 or Step3→Step2. The profile is unchanged.
func (c *Controller) Retreat() (Outcome, error) {
	from := c.state.CurrentStep
	if from == models.Step1 {
		return Outcome{}, fmt.Errorf("%w: %s has no previous step", ErrNoTransition, from)
	}
	c.enter(from - 1)
	return Outcome{Event: EventBack, From: from, To: c.state.CurrentStep}, nil
}

// Reset clears the profile entirely and returns to Step1.
func (c *Controller) Reset() Outcome {
	from := c.state.CurrentStep
	c.state.Profile = models.UserProfile{}
	c.enter(models.Step1)
	return Outcome{Event: EventReset, From: from, To: models.Step1}
}

// HasCachedRecommendation reports whether the next Recommendation call is
// served from the state instead of the recommender.
func (c *Controller) HasCachedRecommendation() bool {
	return c.opts.Recompute == RecomputeOnTransition && c.state.Recommendation != nil
}

// Recommendation returns the recommendation for the completed profile. It is
// only available on Step3. With RecomputeOnTransition the value computed when
// Step3 was entered is returned; with RecomputeOnRender every call computes a
// fresh one.
func (c *Controller) Recommendation() (*models.Recommendation, error) {
	if c.state.CurrentStep != models.Step3 {
		return nil, fmt.Errorf("%w: active step is %s", ErrRecommendationNotReady, c.state.CurrentStep)
	}
	if missing := c.state.Profile.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: profile missing %v", ErrRecommendationNotReady, missing)
	}

	if c.opts.Recompute == RecomputeOnTransition && c.state.Recommendation != nil {
		rec := *c.state.Recommendation
		return &rec, nil
	}

	rec, err := c.recommender.Compute(c.state.Profile)
	if err != nil {
		return nil, err
	}
	if c.opts.Recompute == RecomputeOnTransition {
		c.state.Recommendation = rec
		c.touch()
	}
	out := *rec
	return &out, nil
}

// enter switches to step, seeds the transient selection from the committed
// profile and drops any cached recommendation.
func (c *Controller) enter(step models.Step) {
	c.state.CurrentStep = step
	c.state.Transient = make(map[models.Field]string)
	for _, f := range step.Fields() {
		if v := c.state.Profile.Get(f); v != "" {
			c.state.Transient[f] = v
		}
	}
	c.state.Recommendation = nil
	c.touch()
}

func (c *Controller) touch() {
	c.state.UpdatedAt = c.now().UTC()
}
