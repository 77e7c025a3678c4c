package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepLockPrefix = "lifecycle:sweep:"

// SweepLocker serializes sweeps across service instances: at most one holder
// per entity kind at a time.
type SweepLocker interface {
	// Acquire tries to take the sweep lock for a kind. It reports false when
	// another holder has it.
	Acquire(ctx context.Context, kind string, ttl time.Duration) (bool, error)

	// Release drops the sweep lock for a kind.
	Release(ctx context.Context, kind string) error
}

// RedisSweepLock implements SweepLocker with a Redis SETNX key per kind.
// The TTL caps how long a crashed holder can block other instances.
type RedisSweepLock struct {
	client *redis.Client
}

// NewRedisSweepLock creates a Redis-backed sweep lock.
func NewRedisSweepLock(client *redis.Client) *RedisSweepLock {
	return &RedisSweepLock{client: client}
}

// Acquire tries to take the sweep lock for a kind.
func (l *RedisSweepLock) Acquire(ctx context.Context, kind string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, sweepLockPrefix+kind, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sweep lock for %s: %w", kind, err)
	}
	return ok, nil
}

// Release drops the sweep lock for a kind.
func (l *RedisSweepLock) Release(ctx context.Context, kind string) error {
	if err := l.client.Del(ctx, sweepLockPrefix+kind).Err(); err != nil {
		return fmt.Errorf("release sweep lock for %s: %w", kind, err)
	}
	return nil
}
