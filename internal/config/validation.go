package config

import (
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/retry"
)

// Validate checks a normalized, defaulted playbook.
func Validate(cfg *Config) error {
	if len(cfg.Content.Sources) == 0 {
		return ferrors.ValidationError("playbook has no content sources").
			WithContext("field", "content.sources").
			Build()
	}
	for i, src := range cfg.Content.Sources {
		field := fmt.Sprintf("content.sources[%d]", i)
		if src.URL == "" {
			return ferrors.ValidationError("content source has no url").WithContext("field", field).Build()
		}
		if src.Worktree && src.IsRemote() {
			return ferrors.ValidationError("worktree sources must be local repositories").
				WithContext("field", field).
				WithContext("url", src.URL).
				Build()
		}
		for _, pattern := range src.Branches {
			if _, err := path.Match(pattern, ""); err != nil {
				return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid branch pattern").
					WithContext("field", field+".branches").
					WithContext("pattern", pattern).
					Build()
			}
		}
	}

	if cfg.Site.URL != "" {
		u, err := url.Parse(cfg.Site.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ferrors.ValidationError("site.url must be an absolute http(s) URL").
				WithContext("url", cfg.Site.URL).
				Build()
		}
	}

	f := cfg.Runtime.Fetch
	if f.Retries < 0 {
		return ferrors.ValidationError("runtime.fetch.retries cannot be negative").Build()
	}
	for _, d := range []struct{ name, raw string }{{"initial_delay", f.InitialDelay}, {"max_delay", f.MaxDelay}} {
		if _, err := time.ParseDuration(d.raw); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid runtime.fetch."+d.name).
				WithContext("value", d.raw).
				Build()
		}
	}
	if err := validateRuntime(cfg.Runtime); err != nil {
		return err
	}
	return nil
}

func validateRuntime(rt RuntimeConfig) error {
	if rt.RebuildInterval != "" {
		d, err := time.ParseDuration(rt.RebuildInterval)
		if err != nil || d <= 0 {
			return ferrors.ValidationError("runtime.rebuild_interval must be a positive duration").
				WithContext("value", rt.RebuildInterval).
				Build()
		}
	}
	if raw := rt.LinkEvents.NATSURL; raw != "" {
		u, err := url.Parse(raw)
		if err != nil || !slices.Contains([]string{"nats", "tls", "ws", "wss"}, u.Scheme) {
			return ferrors.ValidationError("runtime.link_events.nats_url must be a nats:// URL").
				WithContext("url", raw).
				Build()
		}
	}
	return nil
}

// RebuildEvery returns the configured rebuild interval, or zero.
func (c *Config) RebuildEvery() time.Duration {
	d, _ := time.ParseDuration(c.Runtime.RebuildInterval)
	return d
}

// RetryPolicy returns the fetch retry policy.
func (c *Config) RetryPolicy() retry.Policy {
	initial, _ := time.ParseDuration(c.Runtime.Fetch.InitialDelay)
	maxDelay, _ := time.ParseDuration(c.Runtime.Fetch.MaxDelay)
	return retry.NewPolicy(retry.BackoffMode(c.Runtime.Fetch.Backoff), initial, maxDelay, c.Runtime.Fetch.Retries)
}

func isRemoteURL(raw string) bool {
	return strings.Contains(raw, "://") || strings.HasPrefix(raw, "git@")
}
