package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:denylist:"

// TokenDenylist records logged-out token IDs in Redis until they would have
// expired anyway. With no client configured every token stays accepted,
// which keeps tests and local setups without Redis working.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist constructs the denylist store.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Deny marks a token ID as revoked for the given remaining lifetime.
func (d *TokenDenylist) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	if d.client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("deny token %s: %w", jti, err)
	}
	return nil
}

// IsDenied reports whether a token ID has been revoked.
func (d *TokenDenylist) IsDenied(ctx context.Context, jti string) (bool, error) {
	if d.client == nil || jti == "" {
		return false, nil
	}
	_, err := d.client.Get(ctx, denylistPrefix+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", jti, err)
	}
	return true, nil
}
