// Package config loads the site playbook: where content comes from, how
// URLs are shaped and where the generated site goes.
package config

import (
	"git.home.luguber.info/inful/docatlas/internal/outpath"
)

// Config is the playbook.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	URLs    URLConfig     `yaml:"urls"`
	Output  OutputConfig  `yaml:"output"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

// SiteConfig describes the site as a whole.
type SiteConfig struct {
	Title string `yaml:"title"`
	// URL is the base URL used for absolute URLs; optional.
	URL string `yaml:"url"`
	// StartPage is a page ID whose page is served at the site root.
	StartPage string `yaml:"start_page"`
}

// ContentConfig lists the content sources.
type ContentConfig struct {
	Sources []Source `yaml:"sources"`
	// CacheDir holds clones of remote sources.
	CacheDir string `yaml:"cache_dir"`
}

// Source is a git repository (local path or remote URL) holding one or
// more component versions.
type Source struct {
	URL string `yaml:"url"`
	// Branches are glob patterns of branches to read.
	Branches []string `yaml:"branches"`
	// StartPath is the directory of the component inside the repository.
	StartPath string `yaml:"start_path"`
	// Worktree reads the checked out files of a local repository instead of branches.
	Worktree bool        `yaml:"worktree"`
	Auth     *AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig holds HTTP credentials for a remote source.
type AuthConfig struct {
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

// URLConfig shapes published URLs.
type URLConfig struct {
	HTMLExtensionStyle outpath.HTMLExtensionStyle `yaml:"html_extension_style"`
}

// OutputConfig controls where the site is written.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Clean bool   `yaml:"clean"`
	// Manifest is the path of the SQLite build manifest; empty disables it.
	Manifest string `yaml:"manifest"`
}

// RuntimeConfig holds process level settings.
type RuntimeConfig struct {
	Log         LogConfig   `yaml:"log"`
	CheckLinks  bool        `yaml:"check_links"`
	MetricsFile string      `yaml:"metrics_file"`
	Fetch       FetchConfig `yaml:"fetch"`
	// MetricsListen serves /metrics on this address in watch mode, e.g. ":9090".
	MetricsListen string `yaml:"metrics_listen"`
	// RebuildInterval schedules periodic rebuilds in watch mode, e.g. "15m".
	RebuildInterval string           `yaml:"rebuild_interval"`
	LinkEvents      LinkEventsConfig `yaml:"link_events"`
}

// LinkEventsConfig publishes broken link events to NATS when NATSURL is set.
type LinkEventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// LogConfig selects log level and format.
type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// FetchConfig controls retries of remote fetches.
type FetchConfig struct {
	Retries      int    `yaml:"retries"`
	Backoff      string `yaml:"backoff"`
	InitialDelay string `yaml:"initial_delay"`
	MaxDelay     string `yaml:"max_delay"`
}

// IsRemote reports whether the source URL names a remote repository.
func (s Source) IsRemote() bool {
	return isRemoteURL(s.URL)
}
