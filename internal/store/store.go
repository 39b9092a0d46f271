// Package store keeps wizard state for the lifetime of a session. Nothing is
// kept beyond the configured TTL.
package store

import (
	"context"
	"errors"
	"time"

	"footfit/internal/common/metrics"
	"footfit/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Store is the session-scoped profile store.
type Store interface {
	Load(ctx context.Context, sessionID string) (*models.WizardState, error)
	Save(ctx context.Context, state *models.WizardState) error
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

func observe(backend, op string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}
