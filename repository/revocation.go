package repository

import (
	"context"
	"time"
)

// TokenDenylist records revoked session token ids until their natural expiry.
// Tokens stay stateless otherwise; this is the only server-side session state.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
