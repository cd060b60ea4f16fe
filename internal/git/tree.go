package git

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	ferrors "git.home.luguber.info/inful/docatlas/internal/foundation/errors"
)

// WalkTree calls fn for every regular file below startPath in the tree of
// commit hash. Paths passed to fn are relative to startPath.
func (r *Repository) WalkTree(hash plumbing.Hash, startPath string, fn func(path string, contents []byte) error) error {
	commit, err := r.CommitObject(hash)
	if err != nil {
		return ClassifyGitError(err, "read commit "+hash.String(), r.URL)
	}
	tree, err := commit.Tree()
	if err != nil {
		return ClassifyGitError(err, "read tree", r.URL)
	}
	if startPath = strings.Trim(startPath, "/"); startPath != "" {
		tree, err = tree.Tree(startPath)
		if err != nil {
			return ferrors.WrapError(fmt.Errorf("%w: %s: %w", ErrStartPathNotFound, startPath, err), ferrors.CategoryNotFound, "find start path").
				WithContext("url", r.URL).
				WithPath(startPath).
				Build()
		}
	}

	return tree.Files().ForEach(func(f *object.File) error {
		if f.Mode != filemode.Regular && f.Mode != filemode.Executable {
			return nil
		}
		rd, err := f.Reader()
		if err != nil {
			return err
		}
		defer rd.Close()
		contents, err := io.ReadAll(rd)
		if err != nil {
			return err
		}
		return fn(f.Name, contents)
	})
}
