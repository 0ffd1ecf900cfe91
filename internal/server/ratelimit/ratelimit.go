// Package ratelimit decides whether a client may make another request.
// RedisLimiter shares a sliding window across instances; MemoryLimiter is
// the single-process fallback.
package ratelimit

import (
	"context"
	"strings"
	"time"
)

// Decision is the outcome of one Allow call. RetryAfter is set when the
// request was refused.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter is consulted once per request with a key identifying the client.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "unknown"
	}
	return key
}
