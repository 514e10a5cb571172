package cognito

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cruddur/pkg/platform/sentinel"
)

const redisKeyPrefix = "cruddur:jwks:"

// RedisKeySetStore mirrors JWKS documents in Redis.
type RedisKeySetStore struct {
	client redis.UniversalClient
}

// NewRedisKeySetStore wraps a go-redis client.
func NewRedisKeySetStore(client redis.UniversalClient) *RedisKeySetStore {
	return &RedisKeySetStore{client: client}
}

// Load returns the mirrored document or sentinel.ErrNotFound.
func (s *RedisKeySetStore) Load(ctx context.Context, url string) ([]byte, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+url).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load key set: %w", err)
	}
	return raw, nil
}

// Save stores the document; ttl zero keeps it until overwritten.
func (s *RedisKeySetStore) Save(ctx context.Context, url string, raw []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisKeyPrefix+url, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save key set: %w", err)
	}
	return nil
}
