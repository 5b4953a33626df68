// Package cache provides the leaderboard read cache with Redis and in-memory
// backends. Demo mode uses the in-memory backend; persistent mode uses Redis.
package cache

import (
	"context"
	"time"
)

// Cache is a small string cache with per-key TTLs. A miss is (value "",
// found false, err nil), never an error.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Health(ctx context.Context) error
	Close() error
}

// Well-known cache keys.
const (
	KeyLeaderboard = "terraquest:leaderboard"
)
