package computerecommendation

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"footfit/internal/common/config"
	"footfit/internal/common/errors"
	"footfit/internal/common/logger"
	"footfit/internal/common/metrics"
	"footfit/internal/common/observability"
	"footfit/internal/common/validation"
	"footfit/internal/engine"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compute-recommendation"

type Handler struct {
	config   *Config
	engine   Recommender
	obs      *observability.Observability
	errors   *errors.ErrorHandler
	logger   logger.Logger
	inSchema validation.JSONSchema
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Engine        Recommender
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

	eng := opts.Engine
	if eng == nil {
		eng = engine.NewSeeded(cfg.Seed)
	}

	return &Handler{
		config:   cfg,
		engine:   eng,
		obs:      opts.Observability,
		errors:   errors.NewErrorHandler(log),
		logger:   log,
		inSchema: validation.ProfileSchema(true),
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

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output, start)
}

// parseInput validates the job variables against the profile schema before
// decoding them. Wrong values are reported ahead of missing ones; null and
// empty values count as missing.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewParseError(err)
	}

	result, err := validation.Validate(validation.WithoutEmpty(variables), h.inSchema)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, schemaError(result)
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func schemaError(result *validation.ValidationResult) *errors.StandardError {
	var invalid []string
	for _, e := range result.Errors {
		if e.Code != validation.CodeRequired {
			invalid = append(invalid, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
	}
	if len(invalid) > 0 {
		return errors.NewInvalidCategoryError(strings.Join(invalid, "; "))
	}
	return errors.NewMissingFieldError(result.FieldsWithCode(validation.CodeRequired))
}

// Execute computes a recommendation for a validated profile.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	profile := input.Profile()
	began := time.Now()
	rec, err := h.engine.Compute(profile)
	if err != nil {
		if stderrors.Is(err, engine.ErrIncompleteProfile) {
			names := make([]string, 0, 6)
			for _, f := range profile.MissingFields() {
				names = append(names, f.JSONName())
			}
			return nil, errors.NewMissingFieldError(names).WithCause(err)
		}
		return nil, errors.NewInternalError(err)
	}

	h.obs.RecordRecommendation(ctx, "worker", string(profile.FootwearPreference), time.Since(began))
	metrics.RecommendationsComputed.WithLabelValues(string(profile.FootwearPreference), rec.Brand).Inc()

	h.logger.Debug("recommendation computed", map[string]interface{}{
		"footwear": profile.FootwearPreference,
		"brand":    rec.Brand,
	})

	return &Output{
		Brand:         rec.Brand,
		MaterialSpec:  rec.MaterialSpec,
		Justification: rec.Justification,
		Tip:           rec.Tip,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output, start time.Time) {
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
		"jobKey": job.GetKey(),
		"brand":  output.Brand,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	observability.RecordSpanError(ctx, err)
	bpmnErr := h.errors.HandleJobError(ctx, client, job, err)

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
}
