// Package session runs wizard operations against stored state: each call
// loads the session, restores a controller, applies one operation and saves
// the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "footfit/internal/common/errors"
	"footfit/internal/common/logger"
	"footfit/internal/common/metrics"
	"footfit/internal/common/observability"
	"footfit/internal/engine"
	"footfit/internal/models"
	"footfit/internal/store"
	"footfit/internal/wizard"

	"github.com/google/uuid"
)

// Service is safe for concurrent use. Operations on the same session are
// serialised within the process.
type Service struct {
	store       store.Store
	recommender wizard.Recommender
	opts        wizard.Options
	log         logger.Logger
	obs         *observability.Observability
	newID       func() string

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type Options struct {
	Store       store.Store
	Recommender wizard.Recommender
	Wizard      wizard.Options
	Logger      logger.Logger
	// Observability is optional.
	Observability *observability.Observability
}

func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if opts.Recommender == nil {
		return nil, fmt.Errorf("recommender is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	return &Service{
		store:       opts.Store,
		recommender: countingRecommender{next: opts.Recommender, obs: opts.Observability},
		opts:        opts.Wizard,
		log:         opts.Logger,
		obs:         opts.Observability,
		newID:       uuid.NewString,
		locks:       make(map[string]*sessionLock),
	}, nil
}

// Start creates a session positioned on Step1 with an empty profile.
func (s *Service) Start(ctx context.Context) (*models.WizardState, error) {
	id := s.newID()
	c := wizard.New(id, s.recommender, s.opts)
	state := c.Snapshot()

	if err := s.store.Save(ctx, state); err != nil {
		s.log.Error("failed to save new session", map[string]interface{}{"sessionId": id, "error": err.Error()})
		return nil, apperrors.NewSessionStoreFailedError(err).WithCause(err)
	}

	metrics.SessionsStarted.Inc()
	s.log.Info("session started", map[string]interface{}{"sessionId": id})
	return state, nil
}

// Get returns the stored state.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.WizardState, error) {
	return s.load(ctx, sessionID)
}

// SetField records a transient selection on the active step.
func (s *Service) SetField(ctx context.Context, sessionID string, step int, field, value string) (*models.WizardState, error) {
	var out *models.WizardState
	err := s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		f, err := models.ParseField(field)
		if err != nil {
			stdErr := classify(err)
			metrics.FieldRejections.WithLabelValues(metrics.UnknownFieldLabel, string(stdErr.Code)).Inc()
			return stdErr
		}
		if err := c.SetField(models.Step(step), f, value); err != nil {
			stdErr := classify(err)
			metrics.FieldRejections.WithLabelValues(string(f), string(stdErr.Code)).Inc()
			return stdErr
		}
		out = c.Snapshot()
		return nil
	})
	return out, err
}

// Advance runs the Next transition.
func (s *Service) Advance(ctx context.Context, sessionID string) (*models.WizardState, wizard.Outcome, error) {
	return s.transition(ctx, sessionID, wizard.EventNext, (*wizard.Controller).Advance)
}

// Retreat runs the Back transition.
func (s *Service) Retreat(ctx context.Context, sessionID string) (*models.WizardState, wizard.Outcome, error) {
	return s.transition(ctx, sessionID, wizard.EventBack, (*wizard.Controller).Retreat)
}

// Reset clears the profile and returns to Step1.
func (s *Service) Reset(ctx context.Context, sessionID string) (*models.WizardState, wizard.Outcome, error) {
	return s.transition(ctx, sessionID, wizard.EventReset, func(c *wizard.Controller) (wizard.Outcome, error) {
		return c.Reset(), nil
	})
}

func (s *Service) transition(ctx context.Context, sessionID string, event wizard.Event, fn func(*wizard.Controller) (wizard.Outcome, error)) (*models.WizardState, wizard.Outcome, error) {
	var (
		state *models.WizardState
		out   wizard.Outcome
	)
	err := s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		from := c.CurrentStep()
		var err error
		out, err = fn(c)
		if err != nil {
			stdErr := classify(err)
			metrics.WizardTransitions.WithLabelValues(string(event), from.String(), from.String(), string(stdErr.Code)).Inc()
			s.log.Warn("transition rejected", map[string]interface{}{
				"sessionId": sessionID,
				"event":     string(event),
				"step":      from.String(),
				"errorCode": string(stdErr.Code),
			})
			return stdErr
		}
		metrics.WizardTransitions.WithLabelValues(string(event), out.From.String(), out.To.String(), "ok").Inc()
		fields := map[string]interface{}{
			"sessionId": sessionID,
			"event":     string(event),
			"from":      out.From.String(),
			"to":        out.To.String(),
		}
		if len(out.Substituted) > 0 {
			fields["substituted"] = out.Substituted
		}
		s.log.Info("transition", fields)
		state = c.Snapshot()
		return nil
	})
	return state, out, err
}

// Recommendation returns the recommendation for the session's profile
// together with the state it was computed for.
func (s *Service) Recommendation(ctx context.Context, sessionID string) (*models.Recommendation, *models.WizardState, error) {
	var (
		rec   *models.Recommendation
		state *models.WizardState
	)
	err := s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		cached := c.HasCachedRecommendation()
		var err error
		rec, err = c.Recommendation()
		if err != nil {
			return classify(err)
		}
		state = c.Snapshot()
		s.log.Debug("recommendation served", map[string]interface{}{
			"sessionId": sessionID,
			"brand":     rec.Brand,
			"cached":    cached,
			"rules":     engine.RuleNames(state.Profile),
		})
		return nil
	})
	return rec, state, err
}

// End deletes the session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	l := s.lock(sessionID)
	defer s.unlock(sessionID, l)

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return s.storeError(sessionID, "delete", err)
	}
	metrics.SessionsEnded.Inc()
	s.log.Info("session ended", map[string]interface{}{"sessionId": sessionID})
	return nil
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// apply loads the session, runs fn on a restored controller and saves the
// resulting state when fn succeeds.
func (s *Service) apply(ctx context.Context, sessionID string, fn func(*wizard.Controller) error) error {
	l := s.lock(sessionID)
	defer s.unlock(sessionID, l)

	state, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	c := wizard.Restore(state, s.recommender, s.opts)
	if err := fn(c); err != nil {
		return err
	}
	if err := s.store.Save(ctx, c.Snapshot()); err != nil {
		return s.storeError(sessionID, "save", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*models.WizardState, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, s.storeError(sessionID, "load", err)
	}
	return state, nil
}

func (s *Service) storeError(sessionID, op string, err error) *apperrors.StandardError {
	if errors.Is(err, store.ErrSessionNotFound) {
		return apperrors.NewSessionNotFoundError(sessionID).WithCause(err)
	}
	s.log.Error("session store failure", map[string]interface{}{
		"sessionId": sessionID,
		"operation": op,
		"error":     err.Error(),
	})
	return apperrors.NewSessionStoreFailedError(err).WithCause(err)
}

func (s *Service) lock(sessionID string) *sessionLock {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *Service) unlock(sessionID string, l *sessionLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}

// classify maps controller and model errors onto API error codes. The
// original sentinel stays reachable through errors.Is.
func classify(err error) *apperrors.StandardError {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	var missing *wizard.MissingFieldError
	switch {
	case errors.As(err, &missing):
		return apperrors.NewMissingFieldError(missing.FieldNames()).WithCause(err)
	case errors.Is(err, models.ErrUnknownField):
		return apperrors.NewUnknownFieldError(err.Error()).WithCause(err)
	case errors.Is(err, models.ErrInvalidCategory):
		return apperrors.NewInvalidCategoryError(err.Error()).WithCause(err)
	case errors.Is(err, wizard.ErrFieldNotInStep):
		return apperrors.NewFieldNotInStepError(err.Error()).WithCause(err)
	case errors.Is(err, wizard.ErrNoTransition):
		return apperrors.NewNoTransitionError(err.Error()).WithCause(err)
	case errors.Is(err, wizard.ErrRecommendationNotReady), errors.Is(err, engine.ErrIncompleteProfile):
		return apperrors.NewRecommendationNotReadyError(err.Error()).WithCause(err)
	default:
		return apperrors.NewInternalError(err).WithCause(err)
	}
}

// countingRecommender records every engine computation. Cached
// recommendations never reach it.
type countingRecommender struct {
	next wizard.Recommender
	obs  *observability.Observability
}

func (r countingRecommender) Compute(p models.UserProfile) (*models.Recommendation, error) {
	start := time.Now()
	rec, err := r.next.Compute(p)
	if err != nil {
		return nil, err
	}
	footwear := string(p.FootwearPreference)
	metrics.RecommendationsComputed.WithLabelValues(footwear, rec.Brand).Inc()
	r.obs.RecordRecommendation(context.Background(), "api", footwear, time.Since(start))
	return rec, nil
}
