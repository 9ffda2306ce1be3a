package helpdesk

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore caches the single live helpdesk bearer token. Storing a new
// token replaces the previous one; expiry is enforced by the store.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, token string, ttl time.Duration) error
}

const tokenKey = "helpdesk:api_token"

type redisTokenStore struct {
	client *redis.Client
}

// NewRedisTokenStore backs the token cache with a TTL'd redis key.
func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *redisTokenStore) Put(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey, token, ttl).Err()
}
