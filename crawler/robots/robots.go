// Package robots parses robots.txt bodies into an immutable rule set and
// evaluates allow/disallow and crawl-delay decisions against it.
//
// Parsing is a small finite-state walk (current group in, rules value out);
// evaluation is a pure function of (rules, user-agent, path), deliberately
// kept separate from parsing so it never carries hidden state across calls.
package robots

import (
	"strconv"
	"strings"
	"time"
)

// Directive is a single Allow/Disallow rule line attached to a group.
type Directive struct {
	Allow   bool
	Pattern string
}

// Group is one User-agent cluster and the directives that apply to it.
type Group struct {
	Agents     []string
	Directives []Directive
	CrawlDelay *time.Duration
}

// Rules is the immutable, parsed form of a robots.txt body.
type Rules struct {
	Groups []Group
}

// AllowAll is the zero-value rule set: every path is allowed, used when no
// robots.txt could be fetched (spec: RobotsUnavailable is non-fatal).
var AllowAll = &Rules{}

// Parse reads a robots.txt body tolerant of malformed lines: it strips
// comments, splits each line on the first colon, and ignores any line
// without one. Consecutive User-agent lines accumulate into the same
// group; an Allow, Disallow or Crawl-delay line closes the group, so the
// next User-agent line starts a new one.
func Parse(body string) *Rules {
	var groups []*Group
	var current *Group
	groupOpen := false // true while the current group still accepts more User-agent lines

	for _, raw := range strings.Split(body, "\n") {
		line := raw
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if current == nil || !groupOpen {
				current = &Group{}
				groups = append(groups, current)
				groupOpen = true
			}
			current.Agents = append(current.Agents, strings.ToLower(value))
		case "allow", "disallow":
			if current == nil {
				continue
			}
			if key == "disallow" && value == "" {
				// An empty Disallow means no restriction; silently dropped.
				groupOpen = false
				continue
			}
			current.Directives = append(current.Directives, Directive{Allow: key == "allow", Pattern: value})
			groupOpen = false
		case "crawl-delay":
			if current == nil {
				continue
			}
			if secs, err := strconv.ParseFloat(value, 64); err == nil && secs >= 0 {
				d := time.Duration(secs * float64(time.Second))
				current.CrawlDelay = &d
			}
			groupOpen = false
		}
	}

	r := &Rules{Groups: make([]Group, len(groups))}
	for i, g := range groups {
		r.Groups[i] = *g
	}
	return r
}

// matchGroup selects the group applicable to ua: the first group with an
// agent that is a case-insensitive prefix of ua; if none match but a "*"
// group exists, the first such group is used; otherwise nil (meaning: allow).
func (r *Rules) matchGroup(ua string) *Group {
	ua = strings.ToLower(ua)
	var wildcard *Group
	for i := range r.Groups {
		g := &r.Groups[i]
		for _, agent := range g.Agents {
			if agent == "*" {
				if wildcard == nil {
					wildcard = g
				}
				continue
			}
			if agent != "" && strings.HasPrefix(ua, agent) {
				return g
			}
		}
	}
	return wildcard
}

// Allowed reports whether ua may fetch path under these rules.
func (r *Rules) Allowed(ua, path string) bool {
	group := r.matchGroup(ua)
	if group == nil {
		return true
	}
	var (
		best       *Directive
		bestLength = -1
	)
	for i := range group.Directives {
		d := &group.Directives[i]
		if !patternMatches(d.Pattern, path) {
			continue
		}
		length := ruleLength(d.Pattern)
		if length > bestLength || (length == bestLength && d.Allow && best != nil && !best.Allow) {
			best = d
			bestLength = length
		}
	}
	if best == nil {
		return true
	}
	return best.Allow
}

// CrawlDelay returns the matched group's crawl-delay, or nil if unset or no
// group matches.
func (r *Rules) CrawlDelay(ua string) *time.Duration {
	group := r.matchGroup(ua)
	if group == nil {
		return nil
	}
	return group.CrawlDelay
}

// ruleLength is the length of pattern with wildcard/end-anchor markers
// removed, used to pick the most specific matching directive.
func ruleLength(pattern string) int {
	return len(strings.NewReplacer("*", "", "$", "").Replace(pattern))
}

// patternMatches implements the robots.txt wildcard dialect: "*" matches
// any substring, a trailing "$" anchors the match to the end of path, and a
// plain pattern matches as a prefix of path.
func patternMatches(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	anchored := strings.HasSuffix(pattern, "$")
	if anchored {
		pattern = strings.TrimSuffix(pattern, "$")
	}
	segments := strings.Split(pattern, "*")

	rest := path
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if anchored && i > 0 && i == len(segments)-1 {
			// The last literal after a "*" must end exactly at the end of path.
			return strings.HasSuffix(rest, seg)
		}
		idx := strings.Index(rest, seg)
		if idx < 0 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		rest = rest[idx+len(seg):]
	}
	if anchored {
		return rest == "" || (len(segments) > 1 && segments[len(segments)-1] == "")
	}
	return true
}
