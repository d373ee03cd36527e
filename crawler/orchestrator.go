// Package crawler implements a polite, concurrent, breadth-first web-site
// crawler: starting from a single seed URL, it explores same-host pages up
// to a configured depth and page budget, honoring robots.txt and a global
// rate limit.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sitescout/crawler/crawler/canon"
	"github.com/sitescout/crawler/crawler/fetcher"
	"github.com/sitescout/crawler/crawler/ratelimit"
	"github.com/sitescout/crawler/crawler/robots"
	"github.com/sitescout/crawler/messaging"
)

const robotsTxtPath = "/robots.txt"

// robotsAdapter satisfies fetcher.RobotsChecker over a parsed *robots.Rules,
// defaulting to allow-all when none was fetched (spec.md: RobotsUnavailable
// is non-fatal).
type robotsAdapter struct {
	rules *robots.Rules
}

func (r robotsAdapter) Allowed(userAgent, path string) bool {
	return r.rules.Allowed(userAgent, path)
}

// WebCrawler runs crawls against the configuration it is given. It carries
// no per-crawl state itself; all of that lives in the frontier, fetcher and
// stats a single Run call constructs.
type WebCrawler struct{}

// New creates a WebCrawler. It takes no arguments today but exists, in the
// teacher's style, as the stable construction point future options hang
// off without breaking callers.
func New() *WebCrawler {
	return &WebCrawler{}
}

// Run executes a single crawl to completion or cancellation and returns
// every fetched PageRecord together with summary Stats. It is safe to call
// concurrently on the same *WebCrawler with independent Configs.
func (w *WebCrawler) Run(ctx context.Context, cfg Config) ([]PageRecord, Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	log := newLogger(uuid.NewString())

	seed, err := canon.Canonicalize(cfg.BaseURL.String(), nil)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("crawler: invalid base_url: %w", err)
	}

	rules := fetchRobots(ctx, cfg, log)
	limiter := ratelimit.New(cfg.RateLimit)
	if delay := rules.CrawlDelay(cfg.UserAgent); delay != nil {
		limiter.SetCrawlDelay(*delay)
	}

	fc := fetcher.New(cfg.UserAgent, cfg.Timeout, cfg.RetryTimes, robotsAdapter{rules: rules}, limiter)
	defer fc.Close()

	fr := newFrontier(cfg.MaxDepth, cfg.MaxPages)
	fr.TryAdmit(seed, 0)

	workers := cfg.resolvedConcurrency()
	out := messaging.New[PageRecord](workers)
	var stats runStats

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			w.work(ctx, fc, fr, out, &stats)
		}()
	}

	// Close the frontier if the caller cancels, unblocking every worker
	// parked in frontier.Next().
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			fr.Close()
		case <-stop:
		}
	}()

	go func() {
		wg.Wait()
		out.Close()
	}()

	records := out.Drain()
	final := stats.snapshot()
	final.Admitted = fr.admittedCount()

	log.WithFields(logrus.Fields{
		"admitted": final.Admitted,
		"fetched":  final.Fetched,
		"failed":   final.Failed,
		"bytes":    humanize.Bytes(totalBytes(records)),
		"elapsed":  time.Since(start).String(),
	}).Info("crawl finished")

	if err := ctx.Err(); err != nil {
		return records, final, err
	}
	return records, final, nil
}

// work pulls one URL at a time from the frontier until it is closed,
// fetching it, recording the outcome and admitting any newly discovered
// same-host links at depth+1.
func (w *WebCrawler) work(ctx context.Context, fc *fetcher.Fetcher, fr *frontier, out *messaging.Queue[PageRecord], stats *runStats) {
	for {
		e, ok := fr.Next()
		if !ok {
			return
		}

		path := requestPath(e.url)
		record, err := fc.Fetch(ctx, e.url, path)
		switch {
		case err == fetcher.ErrForbidden:
			stats.addDisallowed()
			fr.MarkDone()
			continue
		case err != nil:
			stats.addFailed()
			fr.MarkDone()
			continue
		}

		stats.addFetched()
		out.Produce(*record)

		if record.IsText {
			links, err := fetcher.ExtractLinks(record.URL, record.Text)
			if err == nil {
				for _, link := range links {
					fr.TryAdmit(link, e.depth+1)
				}
			}
		}
		fr.MarkDone()
	}
}

// runStats is the concurrency-safe accumulator behind the Stats value Run
// returns; workers update it with atomics rather than a shared lock.
type runStats struct {
	fetched    int64
	disallowed int64
	failed     int64
}

func (s *runStats) addFetched()    { atomic.AddInt64(&s.fetched, 1) }
func (s *runStats) addDisallowed() { atomic.AddInt64(&s.disallowed, 1) }
func (s *runStats) addFailed()     { atomic.AddInt64(&s.failed, 1) }

func (s *runStats) snapshot() Stats {
	return Stats{
		Fetched:    int(atomic.LoadInt64(&s.fetched)),
		Disallowed: int(atomic.LoadInt64(&s.disallowed)),
		Failed:     int(atomic.LoadInt64(&s.failed)),
	}
}

// fetchRobots fetches and parses robots.txt for the crawl's base host. Any
// failure (network error, a status other than 200, a body read error) is treated as
// RobotsUnavailable and yields an allow-all rule set, per spec.md §4.3.
func fetchRobots(ctx context.Context, cfg Config, log *logrus.Entry) *robots.Rules {
	target := *cfg.BaseURL
	target.Path = robotsTxtPath
	target.RawQuery = ""
	target.Fragment = ""

	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return robots.AllowAll
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Debugf("robots.txt unavailable for %s: %v", target.Host, err)
		return robots.AllowAll
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return robots.AllowAll
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return robots.AllowAll
	}
	return robots.Parse(string(body))
}

// requestPath extracts the path a fetcher.Fetch call should evaluate
// against robots.txt, from an already-canonical URL string. The query
// string is deliberately dropped: §4.3 evaluates robots directives
// against the path alone.
func requestPath(canonicalURL string) string {
	u, err := url.Parse(canonicalURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

func totalBytes(records []PageRecord) uint64 {
	var total uint64
	for _, r := range records {
		if r.IsText {
			total += uint64(len(r.Text))
		} else {
			total += uint64(len(r.Data))
		}
	}
	return total
}
