// Package fetcher implements the single-URL fetch contract: one HTTP GET
// with robots/rate-limit gating, content-type dispatch, timeout and
// retry/back-off. It never panics or returns a fatal error to its caller —
// every outcome is represented as a (*PageRecord, error) pair where error is
// one of the sentinel kinds below, or the context's error when ctx is done
// while waiting for a rate-limit slot or a retry back-off.
package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/rehttp"
	"github.com/benbjohnson/clock"
)

// PageRecord is the tagged-variant result of a successful fetch: either
// decoded text (HTML/JSON) or an opaque byte sequence (everything else).
type PageRecord struct {
	URL    string
	Text   string
	Data   []byte
	IsText bool
}

var (
	// ErrForbidden means robots.txt denies the path; never retried.
	ErrForbidden = errors.New("fetcher: forbidden by robots.txt")
	// ErrPermanentFetch means the URL was dropped after timeout, a non-429
	// 4xx response, or retry budget exhaustion.
	ErrPermanentFetch = errors.New("fetcher: permanent failure")
)

// RobotsChecker is the narrow view of the robots evaluator the fetcher
// needs, kept as an interface so this package has no dependency on the
// robots parser implementation.
type RobotsChecker interface {
	Allowed(userAgent, path string) bool
}

// RateLimiter is the narrow view of the global rate limiter the fetcher
// needs.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

var retryableStatuses = map[int]bool{http.StatusTooManyRequests: true}

func isRetryableStatus(code int) bool {
	return retryableStatuses[code] || (code >= 500 && code <= 599)
}

// Fetcher performs gated, retried HTTP GET requests for a single crawl.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	timeout    time.Duration
	retryTimes int
	robots     RobotsChecker
	limiter    RateLimiter
	delay      rehttp.DelayFn
	clock      clock.Clock
}

// Option customizes a Fetcher at construction time.
type Option func(*Fetcher)

// WithClock overrides the clock used for retry back-off sleeps, letting
// tests substitute clock.NewMock() for deterministic timing.
func WithClock(c clock.Clock) Option {
	return func(f *Fetcher) { f.clock = c }
}

// New builds a Fetcher. robots and limiter are consulted on every call to
// Fetch; the underlying *http.Client is created once and reused for the
// whole crawl, following the same-host-redirect rule of spec.md §4.5.
func New(userAgent string, timeout time.Duration, retryTimes int, robots RobotsChecker, limiter RateLimiter, opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:  userAgent,
		timeout:    timeout,
		retryTimes: retryTimes,
		robots:     robots,
		limiter:    limiter,
		delay:      rehttp.ExpJitterDelay(1*time.Second, 60*time.Second),
		clock:      clock.New(),
	}
	f.client = &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.URL.Host != via[0].URL.Host {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Close releases the Fetcher's idle connections. It must be called once
// per crawl, on every exit path.
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}

// Fetch performs the full fetch algorithm of spec.md §4.5 for a single
// canonical URL: robots check, rate-limit acquisition, GET with per-attempt
// timeout, status/content-type classification, and retry with exponential
// back-off up to the configured retry budget.
func (f *Fetcher) Fetch(ctx context.Context, canonicalURL, path string) (*PageRecord, error) {
	if !f.robots.Allowed(f.userAgent, path) {
		return nil, ErrForbidden
	}

	for attempt := 1; attempt <= f.retryTimes+1; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		record, retry, err := f.attempt(ctx, canonicalURL)
		if err == nil {
			return record, nil
		}
		if !retry {
			return nil, ErrPermanentFetch
		}
		if attempt > f.retryTimes {
			break
		}
		delay := f.delay(rehttp.Attempt{Index: attempt - 1})
		timer := f.clock.Timer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
	return nil, ErrPermanentFetch
}

// attempt performs one HTTP GET. The returned bool reports whether the
// outcome is retryable (TransientFetch); when false the error, if any, is
// final and Fetch must stop immediately without consuming retry budget.
func (f *Fetcher) attempt(ctx context.Context, targetURL string) (*PageRecord, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, false, err
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, errStatus(resp.StatusCode)
	case isRetryableStatus(resp.StatusCode):
		return nil, true, errStatus(resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, errStatus(resp.StatusCode)
	}

	record, err := decodeBody(targetURL, resp)
	if err != nil {
		return nil, true, err
	}
	return record, false, nil
}

func decodeBody(targetURL string, resp *http.Response) (*PageRecord, error) {
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if strings.Contains(contentType, "html") || strings.Contains(contentType, "json") {
		return &PageRecord{URL: targetURL, Text: string(body), IsText: true}, nil
	}
	return &PageRecord{URL: targetURL, Data: body, IsText: false}, nil
}

type statusError struct{ code int }

func errStatus(code int) error { return &statusError{code: code} }

func (e *statusError) Error() string { return http.StatusText(e.code) }

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
