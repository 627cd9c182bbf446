// Package cache is the local key-value store that backs the logbook read
// pipeline.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrQuotaExceeded is returned by Set when the value would push the store past its size limit.
var ErrQuotaExceeded = errors.New("cache quota exceeded")

// Store holds byte values with an optional time to live. A zero ttl never expires.
// Get reports a missing or expired key with ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func expired(at, now time.Time) bool {
	return !at.IsZero() && !now.Before(at)
}
