package crawler

import "github.com/sitescout/crawler/crawler/fetcher"

// PageRecord is a single fetched page, either textual (HTML, JSON, ...) or
// binary (images and other media linked from a page).
type PageRecord = fetcher.PageRecord

// Stats summarizes a finished crawl, returned alongside the page records
// themselves (spec.md §4.7).
type Stats struct {
	// Admitted is the number of URLs accepted into the frontier, including
	// the seed.
	Admitted int
	// Fetched is the number of URLs that produced a PageRecord.
	Fetched int
	// Disallowed is the number of URLs skipped because robots.txt forbade
	// them.
	Disallowed int
	// Failed is the number of URLs whose fetch exhausted its retry budget
	// or hit a permanent error.
	Failed int
}
