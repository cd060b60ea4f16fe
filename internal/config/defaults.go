package config

const (
	defaultOutputDir    = "build/site"
	defaultCacheDir     = ".cache/docatlas"
	defaultRetries      = 2
	defaultBackoff      = "linear"
	defaultInitialDelay = "1s"
	defaultMaxDelay     = "30s"
	defaultLinkSubject  = "docatlas.links.broken"
)

// DefaultBranches are read when a source lists none.
var DefaultBranches = []string{"main", "master"}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Content.CacheDir == "" {
		cfg.Content.CacheDir = defaultCacheDir
	}
	for i := range cfg.Content.Sources {
		src := &cfg.Content.Sources[i]
		if len(src.Branches) == 0 && !src.Worktree {
			src.Branches = append([]string(nil), DefaultBranches...)
		}
	}
	f := &cfg.Runtime.Fetch
	if f.Retries == 0 {
		f.Retries = defaultRetries
	}
	if f.Backoff == "" {
		f.Backoff = defaultBackoff
	}
	if f.InitialDelay == "" {
		f.InitialDelay = defaultInitialDelay
	}
	if f.MaxDelay == "" {
		f.MaxDelay = defaultMaxDelay
	}
	if cfg.Runtime.LinkEvents.NATSURL != "" && cfg.Runtime.LinkEvents.Subject == "" {
		cfg.Runtime.LinkEvents.Subject = defaultLinkSubject
	}
}
