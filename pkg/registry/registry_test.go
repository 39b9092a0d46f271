package registry

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoFile(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", rel)
}

func TestLoadRegistry_Shipped(t *testing.T) {
	reg, err := LoadRegistry(repoFile(t, "configs/activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{"compute-recommendation", "validate-profile"} {
		a, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		d, err := a.TimeoutDuration()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, d)
	}

	_, ok := reg.Find("send-invoice")
	assert.False(t, ok)
}

func validActivity(id, taskType string) Activity {
	return Activity{ID: id, DisplayName: "x", TaskType: taskType, Category: "recommendation", Timeout: "1s"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{"empty", nil, "no activities"},
		{"bad id", []Activity{validActivity("Compute", "c")}, "domain.subdomain.action"},
		{"duplicate id", []Activity{validActivity("a.b.c", "x"), validActivity("a.b.c", "y")}, "duplicate activity ID"},
		{"duplicate task type", []Activity{validActivity("a.b.c", "x"), validActivity("a.b.d", "x")}, "duplicate task type"},
		{"missing task type", []Activity{validActivity("a.b.c", "")}, "TaskType"},
		{"bad timeout", []Activity{func() Activity { a := validActivity("a.b.c", "x"); a.Timeout = "soon"; return a }()}, "invalid timeout"},
		{"negative retries", []Activity{func() Activity { a := validActivity("a.b.c", "x"); a.Retries = -1; return a }()}, "retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ActivityRegistry{Activities: tt.activities}).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	reg := &ActivityRegistry{Version: "1.0.0", Activities: []Activity{validActivity("footfit.profile.validate", "validate-profile")}}

	require.NoError(t, Save(reg, path))
	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.Activities[0].TaskType, loaded.Activities[0].TaskType)
	assert.NoError(t, loaded.Validate())
}
