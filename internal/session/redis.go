package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore persists session records as JSON values whose redis TTL
// mirrors the session expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	data, err := s.client.Get(ctx, keyPrefix+token).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var record Record

	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &record, nil
}

func (s *RedisStore) Save(ctx context.Context, record *Record, ttl time.Duration) error {
	data, err := json.Marshal(record)

	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+record.SessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	deleted, err := s.client.Del(ctx, keyPrefix+token).Result()

	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if deleted == 0 {
		return ErrSessionNotFound
	}

	return nil
}
