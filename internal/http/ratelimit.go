package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const limiterWindow = time.Minute

// rateLimiter caps mutating requests per client IP inside a fixed
// one-minute window. The limit comes from configuration; read-only
// endpoints never consult it.
type rateLimiter struct {
	limit int

	mu      sync.Mutex
	buckets map[string]*ipBucket

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// ipBucket counts one client's mutations in the current window.
type ipBucket struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(limit int) *rateLimiter {
	rl := &rateLimiter{
		limit:       limit,
		buckets:     make(map[string]*ipBucket),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// allow counts one mutating request for clientIP and reports whether it
// fits the window budget.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.buckets[clientIP]
	if !ok || now.Sub(bucket.windowStart) >= limiterWindow {
		rl.buckets[clientIP] = &ipBucket{windowStart: now, count: 1}
		return true
	}

	bucket.count++
	if bucket.count > rl.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}

// cleanupLoop drops buckets for clients that have gone quiet, so the
// map does not grow with every IP ever seen.
func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * limiterWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropIdleBuckets(time.Now())
		case <-rl.stopCleanup:
			return
		}
	}
}

// dropIdleBuckets removes every bucket whose window started at least
// two windows before now.
func (rl *rateLimiter) dropIdleBuckets(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, bucket := range rl.buckets {
		if now.Sub(bucket.windowStart) >= 2*limiterWindow {
			delete(rl.buckets, ip)
		}
	}
}

// stop ends the cleanup goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
