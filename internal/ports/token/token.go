package token

import (
	"context"
	"time"
)

// Denylist keeps the ids of revoked access tokens until they would have
// expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Claims is what a verified access token says about its bearer.
type Claims struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}
