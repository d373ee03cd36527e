// Package ratelimit enforces a single, process-wide ceiling on outbound
// requests per second, built on golang.org/x/time/rate.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates request issuance to at most one per minimum interval, where
// the interval starts at 1/requestsPerSecond and may be widened by a
// robots.txt crawl-delay via SetCrawlDelay.
type Limiter struct {
	limiter *rate.Limiter
	base    time.Duration
}

// New creates a Limiter enforcing requestsPerSecond as a strict minimum
// inter-request interval (burst of 1: a token is issued no faster than the
// configured rate, which is what spec.md's "reservation slot" model needs).
func New(requestsPerSecond float64) *Limiter {
	interval := time.Duration(float64(time.Second) / requestsPerSecond)
	l := &Limiter{base: interval}
	l.limiter = rate.NewLimiter(rate.Every(interval), 1)
	return l
}

// SetCrawlDelay widens the minimum interval to max(1/rate_limit, delay),
// per spec.md §4.4. Calling it with a delay narrower than the base rate is
// a no-op. rate.Limiter.SetLimit is safe for concurrent use.
func (l *Limiter) SetCrawlDelay(delay time.Duration) {
	if delay <= l.base {
		return
	}
	l.limiter.SetLimit(rate.Every(delay))
}

// Wait blocks until a request slot is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
