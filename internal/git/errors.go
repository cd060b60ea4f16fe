package git

import (
	"errors"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
)

// ErrStartPathNotFound indicates the start path of a source is missing from a commit tree.
var ErrStartPathNotFound = errors.New("start path not found in tree")

// ClassifyGitError translates go-git errors into classified errors.
func ClassifyGitError(err error, op, url string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}

	b := ferrors.WrapError(err, ferrors.CategoryGit, "git "+op+" failed").
		WithContext("op", op).
		WithContext("url", url)

	l := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed),
		strings.Contains(l, "authentication"):
		b = b.UserAction()
	case errors.Is(err, git.ErrRepositoryNotExists), errors.Is(err, transport.ErrRepositoryNotFound):
		b = ferrors.WrapError(err, ferrors.CategoryNotFound, "repository not found").
			WithContext("op", op).
			WithContext("url", url)
	case strings.Contains(l, "timeout"), strings.Contains(l, "connection reset"), strings.Contains(l, "remote hung up"),
		strings.Contains(l, "no route to host"), strings.Contains(l, "too many requests"):
		b = b.Retryable()
	}
	return b.Build()
}

// IsPermanent reports whether retrying err cannot help: missing
// repositories, rejected credentials and local filesystem failures.
func IsPermanent(err error) bool {
	ce, ok := ferrors.AsClassified(err)
	if !ok {
		return false
	}
	switch {
	case ce.RetryStrategy() == ferrors.RetryUserAction:
		return true
	case ce.IsCategory(ferrors.CategoryNotFound), ce.IsCategory(ferrors.CategoryFileSystem):
		return true
	}
	return false
}
