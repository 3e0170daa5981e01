package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix = "oidcstate:"
	stateTTL       = 10 * time.Minute
)

// StateStore issues one-shot OIDC state values bound to a nonce, so
// the callback can reject forged or replayed redirects.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Issue creates a state→nonce binding with a short TTL.
func (s *StateStore) Issue(ctx context.Context) (state, nonce string, err error) {
	state = uuid.NewString()
	nonce = uuid.NewString()

	if err := s.client.Set(ctx, stateKeyPrefix+state, nonce, stateTTL).Err(); err != nil {
		return "", "", fmt.Errorf("failed to issue oidc state: %w", err)
	}

	return state, nonce, nil
}

// Consume returns the nonce for a state and deletes it, so each state
// authorizes exactly one callback.
func (s *StateStore) Consume(ctx context.Context, state string) (string, error) {
	nonce, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrStateNotFound
		}
		return "", fmt.Errorf("failed to consume oidc state: %w", err)
	}

	return nonce, nil
}
