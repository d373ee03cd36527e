package crawler

import "errors"

// ErrInvalidConfig is returned by Run when a Config value violates one of
// the invariants of spec.md §3. Config validity is otherwise the caller's
// responsibility (see crawler/config for a loader that produces already-
// validated values).
var ErrInvalidConfig = errors.New("crawler: invalid config")

func (c Config) validate() error {
	switch {
	case c.BaseURL == nil:
		return errors.Join(ErrInvalidConfig, errors.New("base_url is required"))
	case c.BaseURL.Scheme != "http" && c.BaseURL.Scheme != "https":
		return errors.Join(ErrInvalidConfig, errors.New("base_url must be http or https"))
	case c.UserAgent == "":
		return errors.Join(ErrInvalidConfig, errors.New("user_agent must not be empty"))
	case c.MaxDepth < 0:
		return errors.Join(ErrInvalidConfig, errors.New("max_depth must be >= 0"))
	case c.MaxPages <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("max_pages must be > 0"))
	case c.Timeout <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("timeout must be > 0"))
	case c.RateLimit <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("rate_limit must be > 0"))
	case c.RetryTimes < 0:
		return errors.Join(ErrInvalidConfig, errors.New("retry_times must be >= 0"))
	case c.Concurrency < 0:
		return errors.Join(ErrInvalidConfig, errors.New("concurrency must be >= 0"))
	}
	return nil
}
