// Package fetcher also implements link extraction (component B): parsing
// a fetched HTML page and emitting the same-host canonical URLs its anchors
// point to.
package fetcher

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitescout/crawler/crawler/canon"
)

// ExtractLinks parses html as the body of pageURL and returns the ordered,
// de-duplicated, same-host canonical URLs its anchors reference. mailto:,
// javascript: and empty hrefs are discarded, per spec.md §4.2.
func ExtractLinks(pageURL string, html string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	host := canon.Host(pageURL)
	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return
		}
		canonical, err := canon.Canonicalize(href, base)
		if err != nil {
			return
		}
		if canon.Host(canonical) != host {
			return
		}
		if seen[canonical] {
			return
		}
		seen[canonical] = true
		links = append(links, canonical)
	})

	return links, nil
}
