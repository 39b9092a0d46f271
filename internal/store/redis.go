package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"footfit/internal/common/database"
	"footfit/internal/models"
)

const keyPrefix = "footfit:wizard:"

// RedisStore keeps each state as JSON under footfit:wizard:<sessionID>. Every
// save refreshes the TTL.
type RedisStore struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func Key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*models.WizardState, error) {
	defer observe("redis", "load", time.Now())

	var state models.WizardState
	err := s.client.GetJSON(ctx, Key(sessionID), &state)
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if state.Transient == nil {
		state.Transient = make(map[models.Field]string)
	}
	return &state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *models.WizardState) error {
	defer observe("redis", "save", time.Now())

	if err := s.client.SetJSON(ctx, Key(state.SessionID), state, s.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", state.SessionID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	defer observe("redis", "delete", time.Now())

	existed, err := s.client.Del(ctx, Key(sessionID))
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	if !existed {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
