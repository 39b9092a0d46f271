package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"footfit/internal/common/config"
	"footfit/internal/engine"
	"footfit/internal/models"
	"footfit/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var runnerFlags = []string{
	"--age_group", "36-50", "--gender", "Male", "--weight_group", "71-90kg",
	"--activity_level", "Low", "--foot_arch_type", "High", "--footwear_preference", "Casual",
}

func TestRecommend_Text(t *testing.T) {
	out, err := execute(t, append([]string{"recommend", "--seed", "42"}, runnerFlags...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Casual")
	assert.Contains(t, out, "soft, flexible outsole")
	assert.Contains(t, out, "not a medical diagnostic")
}

func TestRecommend_JSONIsSeeded(t *testing.T) {
	args := append([]string{"recommend", "--seed", "42", "-o", "json"}, runnerFlags...)

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)

	var a, b struct {
		Profile        models.UserProfile    `json:"profile"`
		Recommendation models.Recommendation `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))

	assert.Equal(t, models.FootwearCasual, a.Profile.FootwearPreference)
	assert.Contains(t, engine.Brands(models.FootwearCasual), a.Recommendation.Brand)
	assert.Equal(t, a.Recommendation.Brand, b.Recommendation.Brand)
	assert.Equal(t, a.Recommendation.Tip, b.Recommendation.Tip)
	assert.True(t, strings.HasSuffix(a.Recommendation.Justification, "Better for low-activity comfort."))
}

func TestRecommend_Errors(t *testing.T) {
	_, err := execute(t, "recommend", "--gender", "Male")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING_FIELD")

	_, err = execute(t, append(append([]string{"recommend"}, runnerFlags...), "--gender", "Other")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidCategory)

	_, err = execute(t, append([]string{"recommend", "-o", "yaml"}, runnerFlags...)...)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	out, err := execute(t, "options")
	require.NoError(t, err)
	assert.Contains(t, out, "footwear_preference")
	assert.Contains(t, out, "Running | CrossTraining | Casual | Sandals")

	out, err = execute(t, "options", "-o", "json")
	require.NoError(t, err)
	var list []fieldOptions
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 6)
	assert.Equal(t, "age_group", list[0].Field)
	assert.Equal(t, 2, list[5].Step)
}

func TestRegistryValidate(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "configs", "activity-registry.json")

	out, err := execute(t, "registry", "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 activities")

	out, err = execute(t, "registry", "list", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "compute-recommendation")

	_, err = execute(t, "registry", "validate", "--path", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewTerminalController(t *testing.T) {
	cfg := &config.Config{Wizard: config.WizardConfig{MissingFields: "reject", Recompute: "transition"}}

	ctrl, err := newTerminalController(cfg, "default", "", 3)
	require.NoError(t, err)
	assert.Equal(t, models.Step1, ctrl.CurrentStep())

	out, err := ctrl.Advance()
	require.NoError(t, err, "default policy fills the missing answers")
	assert.Equal(t, models.Step2, out.To)
	assert.Len(t, out.Substituted, 3)

	_, err = newTerminalController(cfg, "skip", "", 0)
	assert.Error(t, err)

	ctrl, err = newTerminalController(cfg, "", "", 0)
	require.NoError(t, err)
	_, err = ctrl.Advance()
	var missing *wizard.MissingFieldError
	assert.ErrorAs(t, err, &missing)
}
