package git

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/docatlas/internal/config"
	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
	"git.home.luguber.info/inful/docatlas/internal/metrics"
	"git.home.luguber.info/inful/docatlas/internal/retry"
)

// Repository is an opened content repository.
type Repository struct {
	*git.Repository
	URL string
	// Remote is true when branches live under refs/remotes/origin.
	Remote bool
	// Dir is the local directory of the repository or its cache clone.
	Dir string
}

// Client opens content repositories.
type Client struct {
	cacheDir string
	policy   retry.Policy
	recorder metrics.Recorder
}

// NewClient creates a client that clones remote repositories below cacheDir.
func NewClient(cacheDir string, policy retry.Policy) *Client {
	return &Client{cacheDir: cacheDir, policy: policy, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the recorder for fetch durations and retries.
func (c *Client) WithRecorder(r metrics.Recorder) *Client {
	c.recorder = metrics.OrNoop(r)
	return c
}

// Open opens the repository of src, cloning or fetching remote ones.
func (c *Client) Open(ctx context.Context, src config.Source) (*Repository, error) {
	if !src.IsRemote() {
		return OpenLocal(src.URL)
	}
	start := time.Now()
	repo, err := c.openRemote(ctx, src)
	c.recorder.ObserveFetchDuration(src.URL, time.Since(start), err == nil)
	return repo, err
}

// OpenLocal opens a repository on disk, searching parent directories for .git.
func OpenLocal(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", dir)
	}
	return &Repository{Repository: repo, URL: dir, Dir: dir}, nil
}

func (c *Client) openRemote(ctx context.Context, src config.Source) (*Repository, error) {
	dir := filepath.Join(c.cacheDir, cacheKey(src.URL))
	auth := authMethod(src.Auth)

	var repo *git.Repository
	op := func() error {
		var err error
		repo, err = git.PlainOpen(dir)
		switch {
		case errors.Is(err, git.ErrRepositoryNotExists):
			slog.Info("Cloning content source", logfields.URL(src.URL), logfields.Path(dir))
			if mkErr := os.MkdirAll(c.cacheDir, 0o750); mkErr != nil {
				return ferrors.WrapError(mkErr, ferrors.CategoryFileSystem, "create cache directory").
					WithPath(c.cacheDir).
					Build()
			}
			repo, err = git.PlainCloneContext(ctx, dir, true, &git.CloneOptions{URL: src.URL, Auth: auth, Tags: git.NoTags})
			if err != nil {
				_ = os.RemoveAll(dir)
				return ClassifyGitError(err, "clone", src.URL)
			}
			return nil
		case err != nil:
			return ClassifyGitError(err, "open", dir)
		}

		slog.Debug("Fetching content source", logfields.URL(src.URL), logfields.Path(dir))
		err = repo.FetchContext(ctx, &git.FetchOptions{RemoteName: git.DefaultRemoteName, Auth: auth, Force: true, Tags: git.NoTags})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return ClassifyGitError(err, "fetch", src.URL)
		}
		return nil
	}

	onRetry := func(attempt int, err error) {
		c.recorder.IncFetchRetry(src.URL)
		slog.Warn("Retrying content source", logfields.URL(src.URL), slog.Int("attempt", attempt), logfields.Error(err))
	}
	if err := c.policy.Do(ctx, op, IsPermanent, onRetry); err != nil {
		return nil, err
	}
	return &Repository{Repository: repo, URL: src.URL, Remote: true, Dir: dir}, nil
}

func authMethod(a *config.AuthConfig) transport.AuthMethod {
	if a == nil || a.Token == "" {
		return nil
	}
	user := a.Username
	if user == "" {
		user = "x-access-token"
	}
	return &http.BasicAuth{Username: user, Password: a.Token}
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:8])
}
