package validateprofile

import (
	"context"
	"fmt"
	"time"

	"footfit/internal/common/config"
	"footfit/internal/common/errors"
	"footfit/internal/common/logger"
	"footfit/internal/common/metrics"
	"footfit/internal/common/observability"
	"footfit/internal/common/validation"
	"footfit/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "validate-profile"

// Handler checks the profile variables of a process instance. Content
// problems are reported in the output; only unreadable variables fail the job.
type Handler struct {
	config *Config
	obs    *observability.Observability
	errors *errors.ErrorHandler
	logger logger.Logger
	schema validation.JSONSchema
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = LoadConfig(opts.AppConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config: cfg,
		obs:    opts.Observability,
		errors: errors.NewErrorHandler(log),
		logger: log,
		schema: validation.ProfileSchema(false),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.obs.StartJobSpan(ctx, TaskType, job.GetKey(), job.GetProcessInstanceKey())
	defer span.End()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"traceId":            observability.TraceID(ctx),
	})

	variables, err := job.GetVariablesAsMap()
	if err != nil {
		h.failJob(ctx, client, job, errors.NewParseError(err), start)
		return
	}

	output, err := h.Execute(ctx, variables)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, errors.NewInternalError(err), start)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":        job.GetKey(),
		"complete":      output.Complete,
		"missingFields": output.MissingFields,
		"invalidFields": output.InvalidFields,
	})
}

// Execute classifies each profile field as present, missing (absent, null or
// empty) or invalid (outside its enumeration or not a string).
func (h *Handler) Execute(ctx context.Context, variables map[string]interface{}) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	out := &Output{MissingFields: []string{}, InvalidFields: []string{}}
	present := make(map[string]interface{}, len(models.Fields))
	for _, f := range models.Fields {
		name := f.JSONName()
		v, ok := variables[name]
		if !ok || v == nil || v == "" {
			out.MissingFields = append(out.MissingFields, name)
			continue
		}
		present[name] = v
	}

	result, err := validation.Validate(present, h.schema)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	for _, f := range models.Fields {
		if result.HasErrors(f.JSONName()) {
			out.InvalidFields = append(out.InvalidFields, f.JSONName())
		}
	}

	out.Complete = len(out.MissingFields) == 0 && len(out.InvalidFields) == 0
	return out, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	observability.RecordSpanError(ctx, err)
	bpmnErr := h.errors.HandleJobError(ctx, client, job, err)

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
}
