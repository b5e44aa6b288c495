package channels

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedKeys caps the number of tracked rate-limit keys to prevent
// memory exhaustion from rotating sender ids.
const maxTrackedKeys = 4096

// UserRateLimiter applies a token bucket per user. Safe for concurrent use.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewUserRateLimiter allows rpm requests per minute per user with the given burst.
// rpm <= 0 disables limiting.
func NewUserRateLimiter(rpm, burst int) *UserRateLimiter {
	limit := rate.Inf
	if rpm > 0 {
		limit = rate.Every(time.Minute / time.Duration(rpm))
	}
	if burst <= 0 {
		burst = 1
	}
	return &UserRateLimiter{
		limiters: make(map[string]*userLimiter),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

// Allow returns true if the key is within rate limits.
// Prunes idle entries and enforces a hard cap on tracked keys.
func (r *UserRateLimiter) Allow(key string) bool {
	if r.limit == rate.Inf {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	if len(r.limiters) >= maxTrackedKeys {
		r.pruneLocked(now)
	}

	l, ok := r.limiters[key]
	if !ok {
		l = &userLimiter{lim: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[key] = l
	}
	l.lastSeen = now
	return l.lim.AllowN(now, 1)
}

// pruneLocked drops users idle long enough to have a full bucket again,
// then evicts arbitrarily if still at the cap.
func (r *UserRateLimiter) pruneLocked(now time.Time) {
	idle := time.Duration(float64(r.burst) / float64(r.limit) * float64(time.Second))
	for k, l := range r.limiters {
		if now.Sub(l.lastSeen) >= idle {
			delete(r.limiters, k)
		}
	}
	for len(r.limiters) >= maxTrackedKeys {
		for k := range r.limiters {
			delete(r.limiters, k)
			break
		}
	}
}

// Tracked returns the number of users currently tracked.
func (r *UserRateLimiter) Tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}
