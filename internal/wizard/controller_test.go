// internal/wizard/controller_test.go
package wizard

import (
	"errors"
	"strings"
	"testing"

	"footfit/internal/engine"
	"footfit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type countingRecommender struct {
	calls int
	err   error
}

func (r *countingRecommender) Compute(p models.UserProfile) (*models.Recommendation, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &models.Recommendation{
		Brand:         "Brand-" + string(p.FootwearPreference),
		MaterialSpec:  "material",
		Justification: "justification",
		Tip:           "tip",
	}, nil
}

func fillStep1(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.SetField(models.Step1, models.FieldAgeGroup, "18-25"))
	require.NoError(t, c.SetField(models.Step1, models.FieldGender, "Female"))
	require.NoError(t, c.SetField(models.Step1, models.FieldWeightGroup, "50-70kg"))
}

func fillStep2(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.SetField(models.Step2, models.FieldActivityLevel, "High"))
	require.NoError(t, c.SetField(models.Step2, models.FieldFootArchType, "Flat"))
	require.NoError(t, c.SetField(models.Step2, models.FieldFootwearPreference, "Running"))
}

func newAtStep3(t *testing.T, rec Recommender, opts Options) *Controller {
	t.Helper()
	c := New("session-1", rec, opts)
	fillStep1(t, c)
	_, err := c.Advance()
	require.NoError(t, err)
	fillStep2(t, c)
	_, err = c.Advance()
	require.NoError(t, err)
	require.Equal(t, models.Step3, c.CurrentStep())
	return c
}

// ==========================
// SetField Tests
// ==========================

func TestController_SetField(t *testing.T) {
	tests := []struct {
		name    string
		step    models.Step
		field   models.Field
		value   string
		wantErr error
	}{
		{name: "valid age", step: models.Step1, field: models.FieldAgeGroup, value: "Over65"},
		{name: "valid gender", step: models.Step1, field: models.FieldGender, value: "Male"},
		{name: "value outside enumeration", step: models.Step1, field: models.FieldWeightGroup, value: "120kg", wantErr: models.ErrInvalidCategory},
		{name: "case matters", step: models.Step1, field: models.FieldGender, value: "female", wantErr: models.ErrInvalidCategory},
		{name: "empty value", step: models.Step1, field: models.FieldAgeGroup, value: "", wantErr: models.ErrInvalidCategory},
		{name: "field from another step", step: models.Step1, field: models.FieldActivityLevel, value: "High", wantErr: ErrFieldNotInStep},
		{name: "step is not active", step: models.Step2, field: models.FieldActivityLevel, value: "High", wantErr: ErrFieldNotInStep},
		{name: "unknown field", step: models.Step1, field: models.Field("shoe_size"), value: "42", wantErr: models.ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("s", &countingRecommender{}, DefaultOptions())

			err := c.SetField(tt.step, tt.field, tt.value)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, c.Snapshot().Transient)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, c.Selection(tt.field))
			assert.Empty(t, c.Profile().Get(tt.field), "selection is not committed before Next")
		})
	}
}

// ==========================
// Transition Tests
// ==========================

func TestController_Advance_Step1ToStep2(t *testing.T) {
	c := New("s", &countingRecommender{}, DefaultOptions())
	fillStep1(t, c)

	out, err := c.Advance()

	require.NoError(t, err)
	assert.Equal(t, Outcome{Event: EventNext, From: models.Step1, To: models.Step2}, out)
	assert.Equal(t, models.Step2, c.CurrentStep())
	p := c.Profile()
	assert.Equal(t, models.Age18To25, p.AgeGroup)
	assert.Equal(t, models.GenderFemale, p.Gender)
	assert.Equal(t, models.Weight50To70, p.WeightGroup)
	assert.Empty(t, p.ActivityLevel)
}

func TestController_Advance_RejectsMissingFields(t *testing.T) {
	c := New("s", &countingRecommender{}, DefaultOptions())
	require.NoError(t, c.SetField(models.Step1, models.FieldGender, "Male"))
	before := c.Snapshot()

	_, err := c.Advance()

	var mfe *MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, models.Step1, mfe.Step)
	assert.Equal(t, []models.Field{models.FieldAgeGroup, models.FieldWeightGroup}, mfe.Fields)
	assert.Equal(t, []string{"age_group", "weight_group"}, mfe.FieldNames())
	assert.Equal(t, models.Step1, c.CurrentStep())
	assert.Equal(t, before.Profile, c.Profile())
}

func TestController_Advance_SubstitutesDefaults(t *testing.T) {
	opts := Options{MissingFields: MissingFieldsDefault}
	c := New("s", &countingRecommender{}, opts)
	require.NoError(t, c.SetField(models.Step1, models.FieldGender, "Female"))

	out, err := c.Advance()

	require.NoError(t, err)
	assert.Equal(t, models.Step2, out.To)
	assert.Equal(t, []models.Field{models.FieldAgeGroup, models.FieldWeightGroup}, out.Substituted)
	p := c.Profile()
	assert.Equal(t, models.AgeUnder18, p.AgeGroup)
	assert.Equal(t, models.GenderFemale, p.Gender)
	assert.Equal(t, models.WeightUnder50, p.WeightGroup)

	out, err = c.Advance()
	require.NoError(t, err)
	assert.Equal(t, models.Step3, out.To)
	assert.True(t, c.Profile().IsComplete())
}

func TestController_Retreat_PreservesValues(t *testing.T) {
	c := New("s", &countingRecommender{}, DefaultOptions())
	fillStep1(t, c)
	_, err := c.Advance()
	require.NoError(t, err)
	require.NoError(t, c.SetField(models.Step2, models.FieldActivityLevel, "Low"))

	out, err := c.Retreat()

	require.NoError(t, err)
	assert.Equal(t, Outcome{Event: EventBack, From: models.Step2, To: models.Step1}, out)
	assert.Equal(t, "18-25", c.Selection(models.FieldAgeGroup))
	assert.Equal(t, "Female", c.Selection(models.FieldGender))
	assert.Equal(t, "50-70kg", c.Selection(models.FieldWeightGroup))
	assert.Equal(t, models.Age18To25, c.Profile().AgeGroup)

	// Next again without touching anything
	_, err = c.Advance()
	require.NoError(t, err)
	assert.Equal(t, models.Step2, c.CurrentStep())
}

func TestController_Retreat_FromStep3KeepsProfile(t *testing.T) {
	rec := &countingRecommender{}
	c := newAtStep3(t, rec, DefaultOptions())
	before := c.Profile()

	_, err := c.Retreat()

	require.NoError(t, err)
	assert.Equal(t, models.Step2, c.CurrentStep())
	assert.Equal(t, before, c.Profile())
	assert.Nil(t, c.Snapshot().Recommendation)
	assert.Equal(t, "Running", c.Selection(models.FieldFootwearPreference))
}

func TestController_NoTransition(t *testing.T) {
	c := New("s", &countingRecommender{}, DefaultOptions())
	_, err := c.Retreat()
	assert.ErrorIs(t, err, ErrNoTransition)
	assert.Equal(t, models.Step1, c.CurrentStep())

	c = newAtStep3(t, &countingRecommender{}, DefaultOptions())
	_, err = c.Advance()
	assert.ErrorIs(t, err, ErrNoTransition)
	assert.Equal(t, models.Step3, c.CurrentStep())
}

func TestController_Reset(t *testing.T) {
	for _, step := range models.Steps {
		t.Run(step.String(), func(t *testing.T) {
			c := newAtStep3(t, &countingRecommender{}, DefaultOptions())
			for c.CurrentStep() != step {
				_, err := c.Retreat()
				require.NoError(t, err)
			}

			out := c.Reset()

			assert.Equal(t, Outcome{Event: EventReset, From: step, To: models.Step1}, out)
			assert.Equal(t, models.Step1, c.CurrentStep())
			assert.Equal(t, models.UserProfile{}, c.Profile())
			assert.Empty(t, c.Snapshot().Transient)
			assert.Nil(t, c.Snapshot().Recommendation)
		})
	}
}

// ==========================
// Recommendation Tests
// ==========================

func TestController_Recommendation_NotReadyBeforeStep3(t *testing.T) {
	c := New("s", &countingRecommender{}, DefaultOptions())
	_, err := c.Recommendation()
	assert.ErrorIs(t, err, ErrRecommendationNotReady)

	fillStep1(t, c)
	_, err = c.Advance()
	require.NoError(t, err)
	_, err = c.Recommendation()
	assert.ErrorIs(t, err, ErrRecommendationNotReady)
}

func TestController_Recommendation_OncePerTransition(t *testing.T) {
	rec := &countingRecommender{}
	c := newAtStep3(t, rec, Options{Recompute: RecomputeOnTransition})
	require.Equal(t, 1, rec.calls)
	assert.True(t, c.HasCachedRecommendation())

	first, err := c.Recommendation()
	require.NoError(t, err)
	second, err := c.Recommendation()
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, first, second)

	// leaving and re-entering Step3 computes again
	_, err = c.Retreat()
	require.NoError(t, err)
	_, err = c.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.calls)
}

func TestController_Recommendation_EveryRender(t *testing.T) {
	rec := &countingRecommender{}
	c := newAtStep3(t, rec, Options{Recompute: RecomputeOnRender})
	require.Equal(t, 0, rec.calls)
	assert.False(t, c.HasCachedRecommendation())

	for i := 1; i <= 3; i++ {
		_, err := c.Recommendation()
		require.NoError(t, err)
		assert.Equal(t, i, rec.calls)
	}
	assert.Nil(t, c.Snapshot().Recommendation)
}

func TestController_Advance_RecommenderFailureLeavesState(t *testing.T) {
	rec := &countingRecommender{err: errors.New("boom")}
	c := New("s", rec, DefaultOptions())
	fillStep1(t, c)
	_, err := c.Advance()
	require.NoError(t, err)
	fillStep2(t, c)

	_, err = c.Advance()

	assert.Error(t, err)
	assert.Equal(t, models.Step2, c.CurrentStep())
	assert.Empty(t, c.Profile().ActivityLevel)
}

func TestController_Snapshot_IsACopy(t *testing.T) {
	c := newAtStep3(t, &countingRecommender{}, DefaultOptions())

	snap := c.Snapshot()
	snap.Profile.Gender = models.GenderMale
	snap.Transient[models.FieldAgeGroup] = "Over65"
	snap.Recommendation.Brand = "changed"

	assert.Equal(t, models.GenderFemale, c.Profile().Gender)
	assert.Empty(t, c.Selection(models.FieldAgeGroup))
	got, err := c.Recommendation()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", got.Brand)
}

func TestController_Restore(t *testing.T) {
	rec := &countingRecommender{}
	c := New("s", rec, DefaultOptions())
	fillStep1(t, c)
	_, err := c.Advance()
	require.NoError(t, err)

	restored := Restore(c.Snapshot(), rec, DefaultOptions())

	assert.Equal(t, models.Step2, restored.CurrentStep())
	assert.Equal(t, c.Profile(), restored.Profile())
	fillStep2(t, restored)
	_, err = restored.Advance()
	require.NoError(t, err)
	assert.Equal(t, models.Step2, c.CurrentStep(), "original controller is untouched")
}

func TestController_Restore_RepairsInvalidStep(t *testing.T) {
	c := Restore(&models.WizardState{SessionID: "s"}, &countingRecommender{}, DefaultOptions())

	assert.Equal(t, models.Step1, c.CurrentStep())
	require.NoError(t, c.SetField(models.Step1, models.FieldGender, "Male"))
}

// ==========================
// Full Flow With Engine
// ==========================

func TestController_FullFlow_WithEngine(t *testing.T) {
	c := newAtStep3(t, engine.NewSeeded(11), DefaultOptions())

	rec, err := c.Recommendation()
	require.NoError(t, err)

	assert.Contains(t, rec.MaterialSpec, "Arch-stability foam")
	assert.Contains(t, rec.MaterialSpec, "breathable")
	assert.True(t, strings.HasPrefix(rec.Justification, engine.GenderClause))
	assert.True(t, strings.HasSuffix(rec.Justification, engine.HighActivityClause))
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), o)

	o, err = ParseOptions("default", "render")
	require.NoError(t, err)
	assert.Equal(t, Options{MissingFields: MissingFieldsDefault, Recompute: RecomputeOnRender}, o)

	_, err = ParseOptions("block", "")
	assert.Error(t, err)
	_, err = ParseOptions("", "always")
	assert.Error(t, err)
}
