// internal/models/profile.go
package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCategory = errors.New("INVALID_CATEGORY")
	ErrUnknownField    = errors.New("UNKNOWN_FIELD")
)

type AgeGroup string

const (
	AgeUnder18 AgeGroup = "Under18"
	Age18To25  AgeGroup = "18-25"
	Age26To35  AgeGroup = "26-35"
	Age36To50  AgeGroup = "36-50"
	Age51To65  AgeGroup = "51-65"
	AgeOver65  AgeGroup = "Over65"
)

var AgeGroups = []AgeGroup{AgeUnder18, Age18To25, Age26To35, Age36To50, Age51To65, AgeOver65}

func (a AgeGroup) IsValid() bool {
	for _, v := range AgeGroups {
		if a == v {
			return true
		}
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

var Genders = []Gender{GenderMale, GenderFemale}

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

type WeightGroup string

const (
	WeightUnder50 WeightGroup = "Under50kg"
	Weight50To70  WeightGroup = "50-70kg"
	Weight71To90  WeightGroup = "71-90kg"
	WeightOver90  WeightGroup = "Over90kg"
)

var WeightGroups = []WeightGroup{WeightUnder50, Weight50To70, Weight71To90, WeightOver90}

func (w WeightGroup) IsValid() bool {
	for _, v := range WeightGroups {
		if w == v {
			return true
		}
	}
	return false
}

type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"
	ActivityModerate ActivityLevel = "Moderate"
	ActivityHigh     ActivityLevel = "High"
)

var ActivityLevels = []ActivityLevel{ActivityLow, ActivityModerate, ActivityHigh}

func (a ActivityLevel) IsValid() bool {
	return a == ActivityLow || a == ActivityModerate || a == ActivityHigh
}

type ArchType string

const (
	ArchFlat   ArchType = "Flat"
	ArchNormal ArchType = "Normal"
	ArchHigh   ArchType = "High"
)

var ArchTypes = []ArchType{ArchFlat, ArchNormal, ArchHigh}

func (a ArchType) IsValid() bool {
	return a == ArchFlat || a == ArchNormal || a == ArchHigh
}

type FootwearPreference string

const (
	FootwearRunning       FootwearPreference = "Running"
	FootwearCrossTraining FootwearPreference = "CrossTraining"
	FootwearCasual        FootwearPreference = "Casual"
	FootwearSandals       FootwearPreference = "Sandals"
)

var FootwearPreferences = []FootwearPreference{FootwearRunning, FootwearCrossTraining, FootwearCasual, FootwearSandals}

func (f FootwearPreference) IsValid() bool {
	for _, v := range FootwearPreferences {
		if f == v {
			return true
		}
	}
	return false
}

func ParseAgeGroup(s string) (AgeGroup, error) { return parseEnum(FieldAgeGroup, AgeGroup(s)) }

func ParseGender(s string) (Gender, error) { return parseEnum(FieldGender, Gender(s)) }

func ParseWeightGroup(s string) (WeightGroup, error) {
	return parseEnum(FieldWeightGroup, WeightGroup(s))
}

func ParseActivityLevel(s string) (ActivityLevel, error) {
	return parseEnum(FieldActivityLevel, ActivityLevel(s))
}

func ParseArchType(s string) (ArchType, error) { return parseEnum(FieldFootArchType, ArchType(s)) }

func ParseFootwearPreference(s string) (FootwearPreference, error) {
	return parseEnum(FieldFootwearPreference, FootwearPreference(s))
}

func parseEnum[T interface {
	~string
	IsValid() bool
}](f Field, v T) (T, error) {
	if !v.IsValid() {
		var zero T
		return zero, fmt.Errorf("%w: %s=%q", ErrInvalidCategory, f, string(v))
	}
	return v, nil
}

// Field names one of the six profile answers. The string form is the
// snake_case name used by the HTTP API and the export.
type Field string

const (
	FieldAgeGroup           Field = "age_group"
	FieldGender             Field = "gender"
	FieldWeightGroup        Field = "weight_group"
	FieldActivityLevel      Field = "activity_level"
	FieldFootArchType       Field = "foot_arch_type"
	FieldFootwearPreference Field = "footwear_preference"
)

// Fields lists every profile field in collection order.
var Fields = []Field{
	FieldAgeGroup, FieldGender, FieldWeightGroup,
	FieldActivityLevel, FieldFootArchType, FieldFootwearPreference,
}

func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Step returns the wizard step that collects the field.
func (f Field) Step() Step {
	switch f {
	case FieldAgeGroup, FieldGender, FieldWeightGroup:
		return Step1
	case FieldActivityLevel, FieldFootArchType, FieldFootwearPreference:
		return Step2
	default:
		return 0
	}
}

// Label is the human readable question heading for the field.
func (f Field) Label() string {
	switch f {
	case FieldAgeGroup:
		return "Age group"
	case FieldGender:
		return "Gender"
	case FieldWeightGroup:
		return "Weight"
	case FieldActivityLevel:
		return "Activity level"
	case FieldFootArchType:
		return "Foot arch type"
	case FieldFootwearPreference:
		return "Footwear preference"
	default:
		return string(f)
	}
}

// JSONName is the camelCase key used for the field in JSON payloads and
// process variables.
func (f Field) JSONName() string {
	switch f {
	case FieldAgeGroup:
		return "ageGroup"
	case FieldGender:
		return "gender"
	case FieldWeightGroup:
		return "weightGroup"
	case FieldActivityLevel:
		return "activityLevel"
	case FieldFootArchType:
		return "footArchType"
	case FieldFootwearPreference:
		return "footwearPreference"
	default:
		return string(f)
	}
}

// Options returns the enumeration for the field in display order. The first
// option doubles as the substitute value when defaults are allowed.
func (f Field) Options() []string {
	switch f {
	case FieldAgeGroup:
		return toStrings(AgeGroups)
	case FieldGender:
		return toStrings(Genders)
	case FieldWeightGroup:
		return toStrings(WeightGroups)
	case FieldActivityLevel:
		return toStrings(ActivityLevels)
	case FieldFootArchType:
		return toStrings(ArchTypes)
	case FieldFootwearPreference:
		return toStrings(FootwearPreferences)
	default:
		return nil
	}
}

// Validate reports whether value belongs to the field's enumeration.
func (f Field) Validate(value string) error {
	for _, opt := range f.Options() {
		if opt == value {
			return nil
		}
	}
	if f.Step() == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return fmt.Errorf("%w: %s=%q", ErrInvalidCategory, f, value)
}

func toStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

// UserProfile holds the six categorical answers. An empty value means the
// answer has not been given yet.
type UserProfile struct {
	AgeGroup           AgeGroup           `json:"ageGroup,omitempty"`
	Gender             Gender             `json:"gender,omitempty"`
	WeightGroup        WeightGroup        `json:"weightGroup,omitempty"`
	ActivityLevel      ActivityLevel      `json:"activityLevel,omitempty"`
	FootArchType       ArchType           `json:"footArchType,omitempty"`
	FootwearPreference FootwearPreference `json:"footwearPreference,omitempty"`
}

// Get returns the raw value of a field, "" when unset.
func (p UserProfile) Get(f Field) string {
	switch f {
	case FieldAgeGroup:
		return string(p.AgeGroup)
	case FieldGender:
		return string(p.Gender)
	case FieldWeightGroup:
		return string(p.WeightGroup)
	case FieldActivityLevel:
		return string(p.ActivityLevel)
	case FieldFootArchType:
		return string(p.FootArchType)
	case FieldFootwearPreference:
		return string(p.FootwearPreference)
	default:
		return ""
	}
}

// Set validates value against the field's enumeration and stores it.
func (p *UserProfile) Set(f Field, value string) error {
	if err := f.Validate(value); err != nil {
		return err
	}
	p.assign(f, value)
	return nil
}

func (p *UserProfile) assign(f Field, value string) {
	switch f {
	case FieldAgeGroup:
		p.AgeGroup = AgeGroup(value)
	case FieldGender:
		p.Gender = Gender(value)
	case FieldWeightGroup:
		p.WeightGroup = WeightGroup(value)
	case FieldActivityLevel:
		p.ActivityLevel = ActivityLevel(value)
	case FieldFootArchType:
		p.FootArchType = ArchType(value)
	case FieldFootwearPreference:
		p.FootwearPreference = FootwearPreference(value)
	}
}

// MissingFields lists fields that are unset or hold a value outside their
// enumeration, in collection order.
func (p UserProfile) MissingFields() []Field {
	var missing []Field
	for _, f := range Fields {
		if f.Validate(p.Get(f)) != nil {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsComplete reports whether all six fields hold valid values.
func (p UserProfile) IsComplete() bool {
	return len(p.MissingFields()) == 0
}

// ParseProfile builds a profile from raw values keyed by field, validating
// each one. Absent keys stay unset.
func ParseProfile(values map[Field]string) (UserProfile, error) {
	var p UserProfile
	for _, f := range Fields {
		v, ok := values[f]
		if !ok || v == "" {
			continue
		}
		if err := p.Set(f, v); err != nil {
			return UserProfile{}, err
		}
	}
	return p, nil
}
