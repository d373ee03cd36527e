package crawler

import (
	"math"
	"net/url"
	"time"
)

// Config is the immutable, fully-validated configuration for a single
// crawl, injected by the caller (spec.md §3). The crawler never mutates it;
// Run checks it once before crawling and returns ErrInvalidConfig if it is
// invalid (see crawler/config for a loader that builds one).
type Config struct {
	// BaseURL anchors the host boundary; every admitted URL shares its host.
	BaseURL *url.URL
	// UserAgent is sent on every request and used for robots.txt matching.
	UserAgent string
	// MaxDepth is the deepest BFS level admitted; 0 means only the seed page.
	MaxDepth int
	// MaxPages is the hard cap on admissions (not successful fetches).
	MaxPages int
	// Timeout is the per-HTTP-request total deadline.
	Timeout time.Duration
	// RateLimit is the global max requests per second.
	RateLimit float64
	// RetryTimes is the retry budget per URL (0 means no retries).
	RetryTimes int
	// Concurrency is the worker pool size. 0 means "derive from RateLimit".
	Concurrency int
}

// resolvedConcurrency returns Concurrency if set, otherwise a value derived
// from RateLimit (spec.md §3: "derivable from rate_limit if absent"), with
// a floor of 1 worker.
func (c Config) resolvedConcurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	derived := int(math.Ceil(c.RateLimit))
	if derived < 1 {
		return 1
	}
	return derived
}
