package service

import (
	"context"
	"math"
	"sync"
	"time"
)

// Bucket sweep defaults.
const (
	bucketIdle       = 10 * time.Minute
	bucketSweepEvery = 5 * time.Minute
)

// TokenBucket is an in-memory per-visitor rate limiter. It gates how often a
// visitor may ask for an image feed to be fetched again after a failure.
// It is safe for concurrent use.
type TokenBucket struct {
	rate     float64 // tokens added per second
	capacity float64
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens float64
	last   time.Time
}

// BucketOption configures a TokenBucket.
type BucketOption func(*TokenBucket)

// WithBucketClock overrides the clock used for refills and sweeps.
func WithBucketClock(now func() time.Time) BucketOption {
	return func(tb *TokenBucket) { tb.now = now }
}

// NewTokenBucket creates a limiter allowing bursts of capacity requests per
// visitor, refilled at rate tokens per second. Call Run to drop idle
// visitors.
func NewTokenBucket(rate, capacity float64, opts ...BucketOption) *TokenBucket {
	tb := &TokenBucket{
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
		buckets:  make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(tb)
	}
	return tb
}

// Allow consumes one token for visitor and reports whether one was left.
func (tb *TokenBucket) Allow(visitor string) bool {
	ok, _ := tb.Reserve(visitor)
	return ok
}

// Reserve consumes one token for visitor. When none is left it reports
// false and how long until the next one; a zero rate never refills and
// reports math.MaxInt64.
func (tb *TokenBucket) Reserve(visitor string) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b := tb.refill(visitor, now)
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if tb.rate <= 0 {
		return false, time.Duration(math.MaxInt64)
	}
	missing := 1 - b.tokens
	return false, time.Duration(missing / tb.rate * float64(time.Second))
}

func (tb *TokenBucket) refill(visitor string, now time.Time) *bucket {
	b, ok := tb.buckets[visitor]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[visitor] = b
		return b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	}
	b.last = now
	return b
}

// Sweep forgets visitors not seen since before cutoff and returns how many
// were dropped. A forgotten visitor starts with a full bucket.
func (tb *TokenBucket) Sweep(cutoff time.Time) int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	n := 0
	for visitor, b := range tb.buckets {
		if b.last.Before(cutoff) {
			delete(tb.buckets, visitor)
			n++
		}
	}
	return n
}

// Run sweeps visitors idle for ten minutes until ctx is cancelled.
func (tb *TokenBucket) Run(ctx context.Context) {
	ticker := time.NewTicker(bucketSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tb.Sweep(tb.now().Add(-bucketIdle))
		}
	}
}
