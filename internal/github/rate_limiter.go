package github

import (
	"context"
	"log"
	"sync"
	"time"
)

// RateLimiter paces calls against the GitHub API rate limit
type RateLimiter interface {
	Wait(ctx context.Context) error
	UpdateLimit(remaining int, resetTime time.Time)
}

const (
	defaultRateLimit   = 5000
	rateLimitThreshold = 10
	minRequestDelay    = 100 * time.Millisecond
)

// restRateLimiter implements RateLimiter for the GitHub REST API
type restRateLimiter struct {
	mu        sync.Mutex
	remaining int
	resetTime time.Time
	lastCall  time.Time
}

// NewRateLimiter creates a new rate limiter primed with GitHub's default
// authenticated quota
func NewRateLimiter() RateLimiter {
	return &restRateLimiter{
		remaining: defaultRateLimit,
		resetTime: time.Now().Add(time.Hour),
	}
}

// Wait blocks until it is safe to make another API call
func (r *restRateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remaining <= rateLimitThreshold {
		waitDuration := time.Until(r.resetTime)
		if waitDuration > 0 {
			log.Printf("github: rate limit low (%d remaining), waiting %v until reset", r.remaining, waitDuration.Round(time.Second))
			r.mu.Unlock()
			select {
			case <-ctx.Done():
				r.mu.Lock()
				return ctx.Err()
			case <-time.After(waitDuration):
				r.mu.Lock()
			}
		}
		r.remaining = defaultRateLimit
		r.resetTime = time.Now().Add(time.Hour)
	}

	// Minimum delay between requests
	elapsed := time.Since(r.lastCall)
	if elapsed < minRequestDelay {
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			r.mu.Lock()
			return ctx.Err()
		case <-time.After(minRequestDelay - elapsed):
			r.mu.Lock()
		}
	}

	r.lastCall = time.Now()
	return nil
}

// UpdateLimit records the rate limit observed on an API response
func (r *restRateLimiter) UpdateLimit(remaining int, resetTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remaining = remaining
	r.resetTime = resetTime
}
