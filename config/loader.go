package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sitescout/crawler/crawler"
)

// fileConfig mirrors crawler.Config in a form that survives YAML/JSON
// decoding: durations and the base URL are strings on the wire. MaxDepth
// and RetryTimes are pointers because 0 is a meaningful value for both
// (seed-only crawl, no retries) and must be told apart from "not set
// anywhere", which the zero value of a plain int cannot express.
type fileConfig struct {
	BaseURL     string  `yaml:"base_url" json:"base_url"`
	UserAgent   string  `yaml:"user_agent" json:"user_agent"`
	MaxDepth    *int    `yaml:"max_depth" json:"max_depth"`
	MaxPages    int     `yaml:"max_pages" json:"max_pages"`
	Timeout     string  `yaml:"timeout" json:"timeout"`
	RateLimit   float64 `yaml:"rate_limit" json:"rate_limit"`
	RetryTimes  *int    `yaml:"retry_times" json:"retry_times"`
	Concurrency int     `yaml:"concurrency" json:"concurrency"`
}

const (
	defaultUserAgent  = "sitescout/1.0 (+https://github.com/sitescout/crawler)"
	defaultMaxDepth   = 16
	defaultMaxPages   = 1000
	defaultTimeout    = 10 * time.Second
	defaultRateLimit  = 1.0
	defaultRetryTimes = 3
)

// Load reads path (YAML unless it ends in .json) and layers SITESCOUT_*
// environment variables on top, producing a crawler.Config. Every field
// left unset by both the file and the environment falls back to the
// defaults above.
func Load(path string) (crawler.Config, error) {
	fc := fileConfig{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return crawler.Config{}, fmt.Errorf("config: %w", err)
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = json.Unmarshal(raw, &fc)
		} else {
			err = yaml.Unmarshal(raw, &fc)
		}
		if err != nil {
			return crawler.Config{}, fmt.Errorf("config: %w", err)
		}
	}

	applyEnvOverrides(&fc)

	base, err := url.Parse(fc.BaseURL)
	if err != nil || fc.BaseURL == "" {
		return crawler.Config{}, fmt.Errorf("config: invalid base_url %q: %w", fc.BaseURL, err)
	}

	timeout := defaultTimeout
	if fc.Timeout != "" {
		timeout, err = time.ParseDuration(fc.Timeout)
		if err != nil {
			return crawler.Config{}, fmt.Errorf("config: invalid timeout %q: %w", fc.Timeout, err)
		}
	}

	userAgent := fc.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxDepth := defaultMaxDepth
	if fc.MaxDepth != nil {
		maxDepth = *fc.MaxDepth
	}
	maxPages := fc.MaxPages
	if maxPages == 0 {
		maxPages = defaultMaxPages
	}
	rateLimit := fc.RateLimit
	if rateLimit == 0 {
		rateLimit = defaultRateLimit
	}
	retryTimes := defaultRetryTimes
	if fc.RetryTimes != nil {
		retryTimes = *fc.RetryTimes
	}

	return crawler.Config{
		BaseURL:     base,
		UserAgent:   userAgent,
		MaxDepth:    maxDepth,
		MaxPages:    maxPages,
		Timeout:     timeout,
		RateLimit:   rateLimit,
		RetryTimes:  retryTimes,
		Concurrency: fc.Concurrency,
	}, nil
}

// applyEnvOverrides mutates fc in place with any SITESCOUT_* variable that
// is set, taking precedence over the file's values. MaxDepth and
// RetryTimes only change when the variable is actually present, so
// SITESCOUT_MAX_DEPTH=0 is distinguishable from an absent variable.
func applyEnvOverrides(fc *fileConfig) {
	fc.BaseURL = GetEnv("SITESCOUT_BASE_URL", fc.BaseURL)
	fc.UserAgent = GetEnv("SITESCOUT_USER_AGENT", fc.UserAgent)
	fc.Timeout = GetEnv("SITESCOUT_TIMEOUT", fc.Timeout)
	if v, ok := LookupEnvAsInt("SITESCOUT_MAX_DEPTH"); ok {
		fc.MaxDepth = &v
	}
	fc.MaxPages = GetEnvAsInt("SITESCOUT_MAX_PAGES", fc.MaxPages)
	if v, ok := LookupEnvAsInt("SITESCOUT_RETRY_TIMES"); ok {
		fc.RetryTimes = &v
	}
	fc.Concurrency = GetEnvAsInt("SITESCOUT_CONCURRENCY", fc.Concurrency)
	fc.RateLimit = GetEnvAsFloat("SITESCOUT_RATE_LIMIT", fc.RateLimit)
}
