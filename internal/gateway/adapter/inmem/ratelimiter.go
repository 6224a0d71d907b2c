package inmem

import (
	"context"
	"math"
	"sync"
	"time"

	"commandcentre/internal/gateway"
)

// Buckets idle for longer than this are dropped by Cleanup.
const staleThreshold = 10 * time.Minute

// RateLimiter is a token bucket limiter with one bucket per caller key
// (a principal ID or a client IP).
type RateLimiter struct {
	rate  float64 // tokens per second
	burst float64
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter.
// rate is tokens per second, burst is the bucket capacity.
// A nil clock uses time.Now.
func NewRateLimiter(rate float64, burst int, clock func() time.Time) *RateLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &RateLimiter{
		rate:    rate,
		burst:   float64(burst),
		now:     clock,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from key's bucket if one is available.
func (rl *RateLimiter) Allow(key string) gateway.RateLimitResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b := rl.bucketFor(key, now)
	b.refill(now, rl.rate, rl.burst)

	if b.tokens >= 1 {
		b.tokens--
		return gateway.RateLimitResult{Allowed: true}
	}
	return gateway.RateLimitResult{
		RetryAfter: max(int(math.Ceil((1-b.tokens)/rl.rate)), 1),
	}
}

func (rl *RateLimiter) bucketFor(key string, now time.Time) *bucket {
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[key] = b
	}
	return b
}

func (b *bucket) refill(now time.Time, rate, burst float64) {
	b.tokens = math.Min(burst, b.tokens+now.Sub(b.lastSeen).Seconds()*rate)
	b.lastSeen = now
}

// Cleanup removes buckets that have not been used recently.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > staleThreshold {
			delete(rl.buckets, key)
		}
	}
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

// BucketCount returns the number of active buckets.
func (rl *RateLimiter) BucketCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}
