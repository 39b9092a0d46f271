package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeProfile() UserProfile {
	return UserProfile{
		AgeGroup:           Age26To35,
		Gender:             GenderMale,
		WeightGroup:        Weight71To90,
		ActivityLevel:      ActivityModerate,
		FootArchType:       ArchNormal,
		FootwearPreference: FootwearCasual,
	}
}

func TestField_StepAndOptions(t *testing.T) {
	tests := []struct {
		field   Field
		step    Step
		options []string
	}{
		{FieldAgeGroup, Step1, []string{"Under18", "18-25", "26-35", "36-50", "51-65", "Over65"}},
		{FieldGender, Step1, []string{"Male", "Female"}},
		{FieldWeightGroup, Step1, []string{"Under50kg", "50-70kg", "71-90kg", "Over90kg"}},
		{FieldActivityLevel, Step2, []string{"Low", "Moderate", "High"}},
		{FieldFootArchType, Step2, []string{"Flat", "Normal", "High"}},
		{FieldFootwearPreference, Step2, []string{"Running", "CrossTraining", "Casual", "Sandals"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			assert.Equal(t, tt.step, tt.field.Step())
			assert.Equal(t, tt.options, tt.field.Options())
			assert.NotEmpty(t, tt.field.Label())
			for _, opt := range tt.options {
				assert.NoError(t, tt.field.Validate(opt))
			}
		})
	}
}

func TestField_Validate(t *testing.T) {
	assert.ErrorIs(t, FieldGender.Validate("Other"), ErrInvalidCategory)
	assert.ErrorIs(t, FieldAgeGroup.Validate(""), ErrInvalidCategory)
	assert.ErrorIs(t, Field("shoe_size").Validate("42"), ErrUnknownField)
}

func TestParseEnums(t *testing.T) {
	a, err := ParseAgeGroup("51-65")
	require.NoError(t, err)
	assert.Equal(t, Age51To65, a)

	fp, err := ParseFootwearPreference("CrossTraining")
	require.NoError(t, err)
	assert.Equal(t, FootwearCrossTraining, fp)

	_, err = ParseGender("male")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = ParseWeightGroup("")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = ParseActivityLevel("Extreme")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = ParseArchType("Medium")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("foot_arch_type")
	require.NoError(t, err)
	assert.Equal(t, FieldFootArchType, f)

	_, err = ParseField("footArchType")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestUserProfile_SetAndGet(t *testing.T) {
	var p UserProfile

	require.NoError(t, p.Set(FieldWeightGroup, "Over90kg"))
	assert.Equal(t, WeightOver90, p.WeightGroup)
	assert.Equal(t, "Over90kg", p.Get(FieldWeightGroup))

	err := p.Set(FieldWeightGroup, "200kg")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Equal(t, WeightOver90, p.WeightGroup, "failed Set leaves the old value")
}

func TestUserProfile_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		want    []Field
	}{
		{name: "complete", profile: completeProfile(), want: nil},
		{name: "empty", profile: UserProfile{}, want: Fields},
		{
			name: "step2 unanswered",
			profile: UserProfile{
				AgeGroup: AgeOver65, Gender: GenderFemale, WeightGroup: WeightUnder50,
			},
			want: []Field{FieldActivityLevel, FieldFootArchType, FieldFootwearPreference},
		},
		{
			name: "value outside enumeration counts as missing",
			profile: func() UserProfile {
				p := completeProfile()
				p.Gender = "unknown"
				return p
			}(),
			want: []Field{FieldGender},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.MissingFields())
			assert.Equal(t, len(tt.want) == 0, tt.profile.IsComplete())
		})
	}
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile(map[Field]string{
		FieldAgeGroup:           "Under18",
		FieldFootwearPreference: "Sandals",
		FieldGender:             "",
	})
	require.NoError(t, err)
	assert.Equal(t, AgeUnder18, p.AgeGroup)
	assert.Equal(t, FootwearSandals, p.FootwearPreference)
	assert.Empty(t, p.Gender)

	_, err = ParseProfile(map[Field]string{FieldActivityLevel: "Extreme"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestUserProfile_JSON(t *testing.T) {
	data, err := json.Marshal(UserProfile{AgeGroup: Age36To50, FootArchType: ArchHigh})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ageGroup":"36-50","footArchType":"High"}`, string(data))

	// JSONName must agree with the struct tags
	full := UserProfile{
		AgeGroup: Age18To25, Gender: GenderMale, WeightGroup: Weight71To90,
		ActivityLevel: ActivityLow, FootArchType: ArchNormal, FootwearPreference: FootwearCasual,
	}
	data, err = json.Marshal(full)
	require.NoError(t, err)
	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, f := range Fields {
		assert.Equal(t, full.Get(f), raw[f.JSONName()], f)
	}
}

func TestStep(t *testing.T) {
	assert.Equal(t, []Field{FieldAgeGroup, FieldGender, FieldWeightGroup}, Step1.Fields())
	assert.Equal(t, []Field{FieldActivityLevel, FieldFootArchType, FieldFootwearPreference}, Step2.Fields())
	assert.Empty(t, Step3.Fields())
	assert.Equal(t, "Step2", Step2.String())
	assert.False(t, Step(0).IsValid())
	assert.Equal(t, "Step(4)", Step(4).String())
}

func TestWizardState_Clone(t *testing.T) {
	s := NewWizardState("abc")
	s.Transient[FieldGender] = "Male"
	s.Recommendation = &Recommendation{Brand: "Teva"}

	c := s.Clone()
	c.Transient[FieldGender] = "Female"
	c.Recommendation.Brand = "Chaco"

	assert.Equal(t, "Male", s.Transient[FieldGender])
	assert.Equal(t, "Teva", s.Recommendation.Brand)
	assert.Equal(t, Step1, c.CurrentStep)
	assert.Nil(t, (*WizardState)(nil).Clone())
}
