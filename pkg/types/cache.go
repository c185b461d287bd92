package types

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract the assistant needs: response
// caching and limiter state. Backed by redis in deployments, by an
// in-process TTL map in tests and cacheless setups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}
