package camunda

import (
	"context"
	"time"

	"footfit/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every worker handler. Handlers complete, fail
// or throw on the job themselves.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Registration binds a handler to a task type.
type Registration struct {
	TaskType      string
	Handler       JobHandler
	MaxJobsActive int
	Timeout       time.Duration
}

// Manager opens and closes the job workers of one process.
type Manager struct {
	client  zbc.Client
	name    string
	logger  logger.Logger
	workers map[string]worker.JobWorker
}

func NewManager(client zbc.Client, name string, log logger.Logger) *Manager {
	return &Manager{
		client:  client,
		name:    name,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for r. Registering the same task type twice keeps
// the first worker.
func (m *Manager) Start(r Registration) {
	if _, ok := m.workers[r.TaskType]; ok {
		m.logger.Warn("worker already started", map[string]interface{}{"taskType": r.TaskType})
		return
	}

	step := m.client.NewJobWorker().
		JobType(r.TaskType).
		Handler(r.Handler.Handle).
		Name(m.name).
		MaxJobsActive(r.MaxJobsActive)
	if r.Timeout > 0 {
		step = step.Timeout(r.Timeout)
	}
	m.workers[r.TaskType] = step.Open()

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      r.TaskType,
		"maxJobsActive": r.MaxJobsActive,
		"timeout":       r.Timeout.String(),
	})
}

// Running lists the task types with an open worker.
func (m *Manager) Running() []string {
	out := make([]string, 0, len(m.workers))
	for t := range m.workers {
		out = append(out, t)
	}
	return out
}

// Stop closes every worker and waits for in-flight jobs until ctx is done.
func (m *Manager) Stop(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		for taskType, w := range m.workers {
			w.Close()
			w.AwaitClose()
			m.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("timed out waiting for workers to stop", map[string]interface{}{"error": ctx.Err()})
	}
}
