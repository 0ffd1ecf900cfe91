package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter is a token bucket per client kept in process memory. Idle
// buckets are dropped after ttl.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	r        rate.Limit
	b        int
	ttl      time.Duration
	now      func() time.Time
}

type clientLimiter struct {
	lim     *rate.Limiter
	lastHit time.Time
}

// NewMemoryLimiter admits limit requests per window with bursts up to limit.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	limit = max(limit, 1)
	return &MemoryLimiter{
		limiters: make(map[string]*clientLimiter),
		r:        rate.Every(window / time.Duration(limit)),
		b:        limit,
		ttl:      2 * window,
		now:      time.Now,
	}
}

func (s *MemoryLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	key = normalizeKey(key)
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	// lazy cleanup
	for k, v := range s.limiters {
		if now.Sub(v.lastHit) > s.ttl {
			delete(s.limiters, k)
		}
	}

	cl, ok := s.limiters[key]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(s.r, s.b)}
		s.limiters[key] = cl
	}
	cl.lastHit = now

	if cl.lim.AllowN(now, 1) {
		return Decision{Allowed: true}, nil
	}

	r := cl.lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return Decision{Allowed: false, RetryAfter: delay}, nil
}
