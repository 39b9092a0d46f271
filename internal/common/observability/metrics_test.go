package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/exporters/prometheus"
)

func TestObservability_RecordsIntoRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	o, err := New("footfit-test", prometheus.WithRegisterer(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Shutdown(context.Background()) })

	ctx := context.Background()
	o.RecordJobProcessed(ctx, "footfit.compute-recommendation", "completed")
	o.RecordJobDuration(ctx, "footfit.compute-recommendation", 12*time.Millisecond, "completed")
	o.RecordRecommendation(ctx, "api", "Running", 300*time.Microsecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "jobs_processed")
	assert.Contains(t, joined, "recommendations_computed")
}

func TestObservability_NilSafe(t *testing.T) {
	var o *Observability
	ctx := context.Background()

	assert.NotPanics(t, func() {
		o.RecordJobProcessed(ctx, "t", "failed")
		o.RecordJobDuration(ctx, "t", time.Second, "failed")
		o.RecordRecommendation(ctx, "cli", "Casual", time.Millisecond)
	})
	assert.NoError(t, o.Shutdown(ctx))
	assert.NoError(t, (&Observability{}).Shutdown(ctx))
}
