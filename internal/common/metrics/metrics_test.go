package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackStoredSessions(t *testing.T) {
	live := 3
	require.NoError(t, TrackStoredSessions("memory", func() int { return live }))
	require.NoError(t, TrackStoredSessions("memory", func() int { return 99 }), "second registration is ignored")

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "footfit_sessions_stored")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var got float64
	for _, f := range families {
		if f.GetName() == "footfit_sessions_stored" {
			got = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, 3.0, got)

	live = 1
	families, err = prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "footfit_sessions_stored" {
			assert.Equal(t, 1.0, f.GetMetric()[0].GetGauge().GetValue(), "read at scrape time")
		}
	}
}
