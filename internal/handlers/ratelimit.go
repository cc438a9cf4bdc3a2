package handlers

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-key counter used to slow down brute-force
// attempts on the token endpoint.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string]int
	limit    int
	window   time.Duration
}

// NewRateLimiter allows up to limit attempts per key per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[string]int),
		limit:    limit,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

// Allow records an attempt for key and reports whether it is within the
// current window's limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.attempts[key]++
	return rl.attempts[key] <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(rl.window)
		rl.mu.Lock()
		rl.attempts = make(map[string]int)
		rl.mu.Unlock()
	}
}
