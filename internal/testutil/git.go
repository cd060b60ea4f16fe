package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitTree writes files into the repository at dir on branch and commits
// them. The repository is created on first use with branch as its default
// branch; a branch not yet present is created from the current HEAD.
func CommitTree(t testing.TB, dir, branch string, files map[string]string) plumbing.Hash {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInitWithOptions(dir, &git.PlainInitOptions{
			InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
		})
	}
	if err != nil {
		t.Fatalf("open repository %s: %v", dir, err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}
	if head, herr := repo.Head(); herr == nil && head.Name().Short() != branch {
		if err := w.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch), Create: true}); err != nil {
			t.Fatalf("checkout %s: %v", branch, err)
		}
	}

	WriteTree(t, dir, files)
	if _, err := w.Add("."); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := w.Commit("content on "+branch, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return hash
}
