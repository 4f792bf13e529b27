package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type tokenDenylist struct {
	client *redislib.Client
	prefix string
	maxTTL time.Duration
}

// NewTokenDenylist creates a Redis-backed revocation registry. Entries live
// only as long as the token they block would have stayed valid.
func NewTokenDenylist(client *redislib.Client, maxTTL time.Duration) repository.TokenDenylist {
	if maxTTL <= 0 {
		maxTTL = time.Hour
	}
	return &tokenDenylist{
		client: client,
		prefix: "revoked:",
		maxTTL: maxTTL,
	}
}

func (r *tokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return domain.ErrInvalidPayload
	}
	if ttl <= 0 || ttl > r.maxTTL {
		ttl = r.maxTTL
	}
	return r.client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *tokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := r.client.Get(ctx, r.key(tokenID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *tokenDenylist) key(tokenID string) string {
	return fmt.Sprintf("%s%s", r.prefix, tokenID)
}
