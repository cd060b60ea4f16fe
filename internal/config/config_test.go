package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/outpath"
	"git.home.luguber.info/inful/docatlas/internal/retry"
)

const examplePlaybook = `
site:
  title: Example Docs
  url: https://docs.example.org/
  start_page: product::index.adoc
content:
  sources:
    - url: https://git.example.org/docs/product.git
      branches: [main, "v*"]
      start_path: /docs/
      auth:
        token: ${DOCATLAS_TEST_TOKEN}
    - url: ./local-repo
      worktree: true
urls:
  html_extension_style: Indexify
runtime:
  log:
    level: DEBUG
    format: json
  check_links: true
`

func TestParse(t *testing.T) {
	t.Setenv("DOCATLAS_TEST_TOKEN", "s3cret")

	cfg, err := Parse([]byte(examplePlaybook))
	require.NoError(t, err)

	assert.Equal(t, "Example Docs", cfg.Site.Title)
	assert.Equal(t, "product::index.adoc", cfg.Site.StartPage)
	require.Len(t, cfg.Content.Sources, 2)

	remote := cfg.Content.Sources[0]
	assert.True(t, remote.IsRemote())
	assert.Equal(t, "docs", remote.StartPath)
	assert.Equal(t, []string{"main", "v*"}, remote.Branches)
	require.NotNil(t, remote.Auth)
	assert.Equal(t, "s3cret", remote.Auth.Token)

	local := cfg.Content.Sources[1]
	assert.False(t, local.IsRemote())
	assert.True(t, local.Worktree)
	assert.Empty(t, local.Branches)

	assert.Equal(t, outpath.StyleIndexify, cfg.URLs.HTMLExtensionStyle)
	assert.Equal(t, LogLevelDebug, cfg.Runtime.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Runtime.Log.Format)
	assert.True(t, cfg.Runtime.CheckLinks)
}

func TestApplyDefaults(t *testing.T) {
	cfg, err := Parse([]byte("content:\n  sources:\n    - url: /srv/repo\n"))
	require.NoError(t, err)

	assert.Equal(t, defaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, defaultCacheDir, cfg.Content.CacheDir)
	assert.Equal(t, DefaultBranches, cfg.Content.Sources[0].Branches)
	assert.Equal(t, outpath.StyleDefault, cfg.URLs.HTMLExtensionStyle)
	assert.Equal(t, LogLevelInfo, cfg.Runtime.Log.Level)
	assert.Equal(t, LogFormatText, cfg.Runtime.Log.Format)

	p := cfg.RetryPolicy()
	assert.Equal(t, retry.BackoffLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		category ferrors.ErrorCategory
	}{
		{"no sources", "site:\n  title: x\n", ferrors.CategoryValidation},
		{"empty url", "content:\n  sources:\n    - branches: [main]\n", ferrors.CategoryValidation},
		{"bad style", "urls:\n  html_extension_style: strip\ncontent:\n  sources:\n    - url: /r\n", ferrors.CategoryConfig},
		{"bad log level", "runtime:\n  log:\n    level: loud\ncontent:\n  sources:\n    - url: /r\n", ferrors.CategoryConfig},
		{"relative site url", "site:\n  url: docs.example.org\ncontent:\n  sources:\n    - url: /r\n", ferrors.CategoryValidation},
		{"remote worktree", "content:\n  sources:\n    - url: https://x.test/r.git\n      worktree: true\n", ferrors.CategoryValidation},
		{"bad branch pattern", "content:\n  sources:\n    - url: /r\n      branches: ['[']\n", ferrors.CategoryValidation},
		{"bad delay", "runtime:\n  fetch:\n    initial_delay: soon\ncontent:\n  sources:\n    - url: /r\n", ferrors.CategoryValidation},
		{"bad rebuild interval", "runtime:\n  rebuild_interval: -5m\ncontent:\n  sources:\n    - url: /r\n", ferrors.CategoryValidation},
		{"bad nats url", "runtime:\n  link_events:\n    nats_url: http://x.test\ncontent:\n  sources:\n    - url: /r\n", ferrors.CategoryValidation},
		{"bad yaml", "content: [\n", ferrors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.category, ferrors.GetCategory(err))
		})
	}
}

func TestRuntimeExtras(t *testing.T) {
	cfg, err := Parse([]byte("runtime:\n  rebuild_interval: 15m\n  link_events:\n    nats_url: nats://127.0.0.1:4222\ncontent:\n  sources:\n    - url: /r\n"))
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.RebuildEvery())
	assert.Equal(t, defaultLinkSubject, cfg.Runtime.LinkEvents.Subject)

	cfg, err = Parse([]byte("content:\n  sources:\n    - url: /r\n"))
	require.NoError(t, err)
	assert.Zero(t, cfg.RebuildEvery())
	assert.Empty(t, cfg.Runtime.LinkEvents.Subject)
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("env file next to playbook", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCATLAS_TEST_REPO=/srv/from-env\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "playbook.yml"), []byte("content:\n  sources:\n    - url: ${DOCATLAS_TEST_REPO}\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("DOCATLAS_TEST_REPO") })

		cfg, err := Load(filepath.Join(dir, "playbook.yml"))
		require.NoError(t, err)
		assert.Equal(t, "/srv/from-env", cfg.Content.Sources[0].URL)
	})
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
	assert.Equal(t, "WARN", LogLevelWarn.SlogLevel().String())
	assert.Equal(t, "INFO", LogLevel("").SlogLevel().String())
}
