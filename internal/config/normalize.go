package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/outpath"
	"git.home.luguber.info/inful/docatlas/internal/retry"
)

// Normalize case-folds enumerations and trims paths. Unknown enumeration
// values are config errors.
func Normalize(cfg *Config) error {
	style, err := outpath.ParseHTMLExtensionStyle(string(cfg.URLs.HTMLExtensionStyle))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid urls.html_extension_style").
			WithContext("value", string(cfg.URLs.HTMLExtensionStyle)).
			Build()
	}
	cfg.URLs.HTMLExtensionStyle = style

	level, err := logLevels.Parse(string(cfg.Runtime.Log.Level))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid runtime.log.level").Build()
	}
	cfg.Runtime.Log.Level = level

	format, err := logFormats.Parse(string(cfg.Runtime.Log.Format))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid runtime.log.format").Build()
	}
	cfg.Runtime.Log.Format = format

	if cfg.Runtime.Fetch.Backoff != "" {
		mode, err := retry.ParseBackoffMode(cfg.Runtime.Fetch.Backoff)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid runtime.fetch.backoff").Build()
		}
		cfg.Runtime.Fetch.Backoff = string(mode)
	}

	cfg.Site.URL = strings.TrimSpace(cfg.Site.URL)
	for i := range cfg.Content.Sources {
		src := &cfg.Content.Sources[i]
		src.URL = strings.TrimSpace(src.URL)
		src.StartPath = strings.Trim(strings.TrimSpace(src.StartPath), "/")
	}
	return nil
}
