package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedPrefix = "revoked:"

// TokenDenylistRedis stores revoked token ids as keys that expire together
// with the token.
type TokenDenylistRedis struct {
	Client *redis.Client
}

func NewTokenDenylistRedis(client *redis.Client) *TokenDenylistRedis {
	return &TokenDenylistRedis{Client: client}
}

func (r *TokenDenylistRedis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.Client.Set(ctx, revokedPrefix+jti, 1, ttl).Err()
}

func (r *TokenDenylistRedis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
