package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/bichitomultihogar/elcausa/pkg/errors"
)

// StateRepository implements repository.StateRepository using Redis.
type StateRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewStateRepository creates a Redis-backed state repository. A zero ttl
// keeps values until they are deleted.
func NewStateRepository(client redis.UniversalClient, ttl time.Duration) *StateRepository {
	return &StateRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the raw value stored under key.
func (r *StateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("state", key)
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key with the configured TTL.
func (r *StateRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key from Redis.
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
