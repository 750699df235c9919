package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront/internal/redisx"
)

var ErrTokenUnknown = errors.New("token unknown or expired")

// TokenStore resolves a bearer token to an identity.
type TokenStore interface {
	Introspect(ctx context.Context, token string) (Identity, error)
}

// RedisTokenStore reads tokens from the store the OAuth2 provider writes
// them to. Expiry is the provider's responsibility via key TTLs.
type RedisTokenStore struct {
	RDB *redis.Client
}

func (s *RedisTokenStore) Introspect(ctx context.Context, token string) (Identity, error) {
	raw, err := s.RDB.Get(ctx, fmt.Sprintf(redisx.KeyAuthToken, token)).Result()
	if errors.Is(err, redis.Nil) {
		return Identity{}, ErrTokenUnknown
	}
	if err != nil {
		return Identity{}, fmt.Errorf("introspect token: %w", err)
	}
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return id, nil
}
