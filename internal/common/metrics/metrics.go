package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Zeebe job metrics.
var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footfit_worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footfit_worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "footfit_worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "footfit_worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Wizard metrics.
var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "footfit_sessions_started_total",
			Help: "Wizard sessions started",
		},
	)

	SessionsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "footfit_sessions_ended_total",
			Help: "Wizard sessions ended explicitly; expired sessions are not counted",
		},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footfit_wizard_transitions_total",
			Help: "Wizard transitions by event and outcome",
		},
		[]string{"event", "from", "to", "result"},
	)

	FieldRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footfit_field_rejections_total",
			Help: "setField calls rejected, by field and error code",
		},
		[]string{"field", "error_code"},
	)

	RecommendationsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footfit_recommendations_total",
			Help: "Recommendations computed by the engine, by footwear preference and brand",
		},
		[]string{"footwear", "brand"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "footfit_store_operation_duration_seconds",
			Help:    "Profile store latency by backend and operation",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"backend", "operation"},
	)

	ExportsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "footfit_exports_total",
			Help: "Recommendation exports by channel and result",
		},
		[]string{"channel", "result"},
	)
)

// UnknownFieldLabel replaces field names that did not parse, keeping the
// field label bounded to the six profile fields plus this one.
const UnknownFieldLabel = "unknown"

// TrackStoredSessions exports count as the footfit_sessions_stored gauge,
// read at scrape time. Only the first registration in a process is kept.
func TrackStoredSessions(backend string, count func() int) error {
	g := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "footfit_sessions_stored",
			Help:        "Live sessions held by the profile store",
			ConstLabels: prometheus.Labels{"backend": backend},
		},
		func() float64 { return float64(count()) },
	)
	err := prometheus.Register(g)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}
